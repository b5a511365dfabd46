package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/skillsense/internal/assessment"
	"github.com/abhisek/skillsense/internal/catalog"
	"github.com/abhisek/skillsense/internal/llm"
	"github.com/abhisek/skillsense/internal/resume"
)

type startAssessmentRequest struct {
	Skill string `json:"skill" binding:"required"`
	Count int    `json:"count"`
}

type quizView struct {
	ID        string                      `json:"id"`
	SkillID   string                      `json:"skillId"`
	SkillName string                      `json:"skillName"`
	Questions []assessment.PublicQuestion `json:"questions"`
}

func viewQuiz(q *assessment.Quiz) quizView {
	return quizView{ID: q.ID, SkillID: q.SkillID, SkillName: q.SkillName, Questions: q.PublicQuestions()}
}

// POST /api/assessments
func (s *Server) startAssessment(c *gin.Context) {
	var req startAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "skill is required", err)
		return
	}
	quiz, err := s.svc.Assessment.Start(c.Request.Context(), userID(c), req.Skill, req.Count)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, "Assessment created", viewQuiz(quiz))
}

// GET /api/assessments/:id
func (s *Server) getAssessment(c *gin.Context) {
	quiz, err := s.svc.Assessment.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if quiz.UserID != userID(c) {
		respondError(c, assessment.ErrNotOwner)
		return
	}
	success(c, "Assessment retrieved", viewQuiz(quiz))
}

type submitRequest struct {
	Answers []int `json:"answers" binding:"required"`
}

// POST /api/assessments/:id/submit
func (s *Server) submitAssessment(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "answers are required", err)
		return
	}
	out, err := s.svc.Assessment.Submit(c.Request.Context(), userID(c), c.Param("id"), req.Answers)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, "Assessment scored", out)
}

// POST /api/coach/resume (multipart: file, roleId, import)
func (s *Server) critiqueResume(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			failure(c, http.StatusRequestEntityTooLarge, "resume file is too large", nil)
			return
		}
		badRequest(c, "a resume file is required", err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		respondError(c, err)
		return
	}

	mime := resume.MIMEFromName(fh.Filename)
	if mime == "" {
		mime = fh.Header.Get("Content-Type")
	}
	text, err := resume.ExtractText(mime, data, s.cfg.ResumeMaxRunes)
	if err != nil {
		respondError(c, err)
		return
	}

	var role *catalog.Role
	if id := c.PostForm("roleId"); id != "" {
		r, err := s.svc.Analysis.Role(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		role = &r
	}

	critique, err := s.svc.Coach.CritiqueResume(c.Request.Context(), text, role)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"critique": critique}
	if doImport, _ := strconv.ParseBool(c.PostForm("import")); doImport {
		imported, err := s.svc.Coach.ImportSkills(c.Request.Context(), userID(c), critique.Skills)
		if err != nil {
			respondError(c, err)
			return
		}
		resp["imported"] = imported
	}
	success(c, "Resume reviewed", resp)
}

type interviewRequest struct {
	RoleID string `json:"roleId" binding:"required"`
	Count  int    `json:"count"`
}

// POST /api/coach/interview/questions
func (s *Server) interviewQuestions(c *gin.Context) {
	var req interviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "roleId is required", err)
		return
	}
	if req.Count <= 0 {
		req.Count = 5
	}
	role, err := s.svc.Analysis.Role(c.Request.Context(), req.RoleID)
	if err != nil {
		respondError(c, err)
		return
	}
	qs, err := s.svc.Coach.InterviewQuestions(c.Request.Context(), role, req.Count)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, "Interview questions generated", qs)
}

type evaluateRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

// POST /api/coach/interview/evaluate
func (s *Server) evaluateAnswer(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "question and answer are required", err)
		return
	}
	ev, err := s.svc.Coach.EvaluateAnswer(c.Request.Context(), req.Question, req.Answer)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, "Answer evaluated", ev)
}

type roadmapRequest struct {
	RoleID string `json:"roleId"`
}

// POST /api/coach/roadmap
func (s *Server) roadmap(c *gin.Context) {
	var req roadmapRequest
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
	rm, err := s.svc.Coach.Roadmap(c.Request.Context(), res)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, "Roadmap generated", rm)
}

type chatRequest struct {
	History []llm.Message `json:"history"`
	Message string        `json:"message" binding:"required"`
}

// POST /api/coach/chat
func (s *Server) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "message is required", err)
		return
	}
	for _, m := range req.History {
		if m.Role != llm.RoleUser && m.Role != llm.RoleAssistant {
			badRequest(c, "history roles must be user or assistant", nil)
			return
		}
	}
	reply, err := s.svc.Coach.Chat(c.Request.Context(), req.History, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, "Reply generated", gin.H{"reply": reply})
}
