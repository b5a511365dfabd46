package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/skillsense/internal/gap"
	"github.com/abhisek/skillsense/internal/recommend"
)

// GET /api/roles
func (s *Server) listRoles(c *gin.Context) {
	roles, err := s.svc.Analysis.Roles(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, "Roles retrieved", roles)
}

// GET /api/roles/:id
func (s *Server) getRole(c *gin.Context) {
	role, err := s.svc.Analysis.Role(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, "Role retrieved", role)
}

// GET /api/profile
func (s *Server) getProfile(c *gin.Context) {
	skills, err := s.svc.Profiles.List(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, "Profile retrieved", gin.H{"userId": userID(c), "skills": skills})
}

type skillLevel struct {
	Skill string `json:"skill" binding:"required"`
	Level *int   `json:"level" binding:"required"`
}

type putSkillsRequest struct {
	Skills []skillLevel `json:"skills" binding:"required,min=1,dive"`
}

// PUT /api/profile/skills
func (s *Server) putSkills(c *gin.Context) {
	var req putSkillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	out := make([]gap.SkillProficiency, 0, len(req.Skills))
	for _, sl := range req.Skills {
		p, err := s.svc.Profiles.SelfReport(c.Request.Context(), userID(c), sl.Skill, *sl.Level)
		if err != nil {
			respondError(c, err)
			return
		}
		out = append(out, p)
	}
	success(c, "Skills updated", out)
}

// DELETE /api/profile/skills/:skill
func (s *Server) deleteSkill(c *gin.Context) {
	if err := s.svc.Profiles.Remove(c.Request.Context(), userID(c), c.Param("skill")); err != nil {
		respondError(c, err)
		return
	}
	success(c, "Skill removed", nil)
}

type analyzeRequest struct {
	RoleID string `json:"roleId" binding:"required"`
}

// POST /api/analysis
func (s *Server) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "roleId is required", err)
		return
	}
	res, err := s.svc.Analysis.Analyze(c.Request.Context(), userID(c), req.RoleID)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, "Gap analysis complete", res)
}

// GET /api/analysis/history?limit=N
func (s *Server) history(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			badRequest(c, "limit must be a non-negative integer", nil)
			return
		}
		limit = n
	}
	results, err := s.svc.Analysis.History(c.Request.Context(), userID(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, "History retrieved", results)
}

// GET /api/analysis/latest
func (s *Server) latest(c *gin.Context) {
	res, ok, err := s.svc.Analysis.Latest(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if !ok {
		failure(c, http.StatusNotFound, "no analysis yet: run a gap analysis first", nil)
		return
	}
	success(c, "Latest analysis retrieved", res)
}

// resultFor returns the analysis a request refers to: this process's
// recent result for roleID, a fresh analysis for roleID, or the user's
// latest analysis when roleID is empty.
func (s *Server) resultFor(c *gin.Context, roleID string) (gap.Result, bool) {
	ctx := c.Request.Context()
	if roleID != "" {
		if res, ok := s.svc.Analysis.Recent(userID(c), roleID); ok {
			return res, true
		}
		res, err := s.svc.Analysis.Analyze(ctx, userID(c), roleID)
		if err != nil {
			respondError(c, err)
			return gap.Result{}, false
		}
		return res, true
	}

	res, ok, err := s.svc.Analysis.Latest(ctx, userID(c))
	if err != nil {
		respondError(c, err)
		return gap.Result{}, false
	}
	if !ok {
		failure(c, http.StatusNotFound, "no analysis yet: run a gap analysis first", nil)
		return gap.Result{}, false
	}
	return res, true
}

type recommendationsRequest struct {
	RoleID   string `json:"roleId"`
	TopN     int    `json:"topN"`
	FreeOnly bool   `json:"freeOnly"`
}

// POST /api/recommendations
func (s *Server) recommendations(c *gin.Context) {
	var req recommendationsRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body", err)
			return
		}
	}
	res, ok := s.resultFor(c, req.RoleID)
	if !ok {
		return
	}

	recs, err := s.svc.Recommend.Recommend(c.Request.Context(), res.Gaps,
		recommend.Options{TopN: req.TopN, FreeOnly: req.FreeOnly})
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, "Recommendations generated", gin.H{
		"analysisId":      res.ID,
		"targetRole":      res.TargetRole,
		"recommendations": recs,
	})
}
