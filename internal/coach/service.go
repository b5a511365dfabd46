package coach

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/skillsense/internal/catalog"
	"github.com/abhisek/skillsense/internal/gap"
	"github.com/abhisek/skillsense/internal/llm"
	"github.com/abhisek/skillsense/internal/metrics"
	"github.com/abhisek/skillsense/internal/profile"
)

// DetectedSkillConfidence is attached to skills imported from a critique.
const DetectedSkillConfidence = 0.6

// Config controls token budgets per feature.
type Config struct {
	CritiqueMaxTokens  int
	InterviewMaxTokens int
	RoadmapMaxTokens   int
	ChatMaxTokens      int
	Temperature        float64

	// MaxChatHistory caps the prior turns sent with a chat message.
	MaxChatHistory int
}

// DefaultConfig returns the recommended defaults.
func DefaultConfig() Config {
	return Config{
		CritiqueMaxTokens:  2048,
		InterviewMaxTokens: 1536,
		RoadmapMaxTokens:   3072,
		ChatMaxTokens:      1024,
		Temperature:        0.5,
		MaxChatHistory:     20,
	}
}

// Service implements the coach features over the LLM gateway. Quick
// interactive calls use the fast tier; long-form reviews use the large one.
type Service struct {
	gw       *llm.Gateway
	profiles *profile.Service
	catalog  *catalog.Catalog
	cfg      Config
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewService creates a coach. profiles and c may be nil; skill import and
// prerequisite ordering are then unavailable.
func NewService(gw *llm.Gateway, profiles *profile.Service, c *catalog.Catalog, cfg Config) *Service {
	return &Service{gw: gw, profiles: profiles, catalog: c, cfg: cfg, now: time.Now}
}

// SetMetrics enables per-feature request counters.
func (s *Service) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

type critiqueOutput struct {
	Score          int             `json:"score"`
	Summary        string          `json:"summary"`
	Strengths      []string        `json:"strengths"`
	Weaknesses     []string        `json:"weaknesses"`
	Suggestions    []string        `json:"suggestions"`
	DetectedSkills []DetectedSkill `json:"detected_skills"`
}

// CritiqueResume reviews resume text, optionally against a target role.
func (s *Service) CritiqueResume(ctx context.Context, text string, role *catalog.Role) (*Critique, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	var out critiqueOutput
	err := s.structured(ctx, llm.PurposeResumeCritique, llm.TierLarge, llm.Request{
		System:    critiqueSystemPrompt,
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: buildCritiqueMessage(text, role)}},
		Schema:    CritiqueSchema,
		MaxTokens: s.cfg.CritiqueMaxTokens,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &Critique{
		Score:       out.Score,
		Summary:     out.Summary,
		Strengths:   out.Strengths,
		Weaknesses:  out.Weaknesses,
		Suggestions: out.Suggestions,
		Skills:      out.DetectedSkills,
	}, nil
}

// ImportSkills records a critique's detected skills in the user's profile
// as AI-assessed observations.
func (s *Service) ImportSkills(ctx context.Context, userID string, skills []DetectedSkill) ([]gap.SkillProficiency, error) {
	if s.profiles == nil {
		return nil, fmt.Errorf("skill import: no profile service configured")
	}
	out := make([]gap.SkillProficiency, 0, len(skills))
	for _, d := range skills {
		id, name := s.profiles.Resolve(d.Name)
		if id == "" {
			continue
		}
		obs := profile.Observation(id, name, d.Level, DetectedSkillConfidence, gap.SourceAIAssessment, s.now())
		merged, err := s.profiles.Record(ctx, userID, obs)
		if err != nil {
			return out, err
		}
		out = append(out, merged)
	}
	return out, nil
}

type interviewOutput struct {
	Questions []InterviewQuestion `json:"questions"`
}

// InterviewQuestions drafts n mock interview questions for role.
func (s *Service) InterviewQuestions(ctx context.Context, role catalog.Role, n int) ([]InterviewQuestion, error) {
	n = min(max(n, 1), 15)

	var out interviewOutput
	err := s.structured(ctx, llm.PurposeInterviewQuestions, llm.TierFast, llm.Request{
		System:    interviewSystemPrompt,
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: buildInterviewMessage(role, n)}},
		Schema:    InterviewSchema,
		MaxTokens: s.cfg.InterviewMaxTokens,
	}, &out)
	if err != nil {
		return nil, err
	}
	if len(out.Questions) > n {
		out.Questions = out.Questions[:n]
	}
	return out.Questions, nil
}

type evaluationOutput struct {
	Score          int      `json:"score"`
	Feedback       string   `json:"feedback"`
	Strengths      []string `json:"strengths"`
	Improvements   []string `json:"improvements"`
	ImprovedAnswer string   `json:"improved_answer"`
}

// EvaluateAnswer grades an interview answer.
func (s *Service) EvaluateAnswer(ctx context.Context, question, answer string) (*Evaluation, error) {
	if strings.TrimSpace(question) == "" || strings.TrimSpace(answer) == "" {
		return nil, ErrEmptyInput
	}

	var out evaluationOutput
	err := s.structured(ctx, llm.PurposeInterviewEvaluation, llm.TierLarge, llm.Request{
		System:    evaluationSystemPrompt,
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: buildEvaluationMessage(question, answer)}},
		Schema:    EvaluationSchema,
		MaxTokens: s.cfg.InterviewMaxTokens,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &Evaluation{
		Score:          out.Score,
		Feedback:       out.Feedback,
		Strengths:      out.Strengths,
		Improvements:   out.Improvements,
		ImprovedAnswer: out.ImprovedAnswer,
	}, nil
}

type roadmapOutput struct {
	Summary string  `json:"summary"`
	Phases  []Phase `json:"phases"`
}

// Roadmap plans how to close the gaps of an analysis. Gaps are presented
// to the model in prerequisite order when the taxonomy knows the skills.
func (s *Service) Roadmap(ctx context.Context, res gap.Result) (*Roadmap, error) {
	rm := &Roadmap{RoleID: res.TargetRole.ID, RoleTitle: res.TargetRole.Title}
	if len(res.Gaps) == 0 {
		rm.Summary = "No gaps to close: you already meet every requirement for this role."
		rm.Phases = []Phase{}
		return rm, nil
	}

	var out roadmapOutput
	err := s.structured(ctx, llm.PurposeRoadmap, llm.TierLarge, llm.Request{
		System:    roadmapSystemPrompt,
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: buildRoadmapMessage(res, s.orderGaps(res.Gaps))}},
		Schema:    RoadmapSchema,
		MaxTokens: s.cfg.RoadmapMaxTokens,
	}, &out)
	if err != nil {
		return nil, err
	}

	rm.Summary = out.Summary
	rm.Phases = out.Phases
	for _, p := range out.Phases {
		rm.TotalWeeks += p.Weeks
	}
	return rm, nil
}

func (s *Service) orderGaps(gaps []gap.SkillGap) []gap.SkillGap {
	if s.catalog == nil {
		return gaps
	}
	byID := make(map[string]gap.SkillGap, len(gaps))
	ids := make([]string, len(gaps))
	for i, g := range gaps {
		byID[g.SkillID] = g
		ids[i] = g.SkillID
	}
	ordered := make([]gap.SkillGap, 0, len(gaps))
	for _, id := range s.catalog.LearningOrder(ids) {
		ordered = append(ordered, byID[id])
	}
	return ordered
}

// Chat continues a free-form coaching conversation.
func (s *Service) Chat(ctx context.Context, history []llm.Message, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", ErrEmptyInput
	}
	if n := s.cfg.MaxChatHistory; n > 0 && len(history) > n {
		history = history[len(history)-n:]
	}
	msgs := make([]llm.Message, 0, len(history)+1)
	msgs = append(msgs, history...)
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: message})

	ctx = llm.WithPurpose(ctx, llm.PurposeChat)
	resp, err := s.gw.For(llm.TierFast).Generate(ctx, llm.Request{
		System:      chatSystemPrompt,
		Messages:    msgs,
		MaxTokens:   s.cfg.ChatMaxTokens,
		Temperature: s.cfg.Temperature,
	})
	s.observe(llm.PurposeChat, err)
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

// structured runs a schema-bound request on tier and decodes the reply
// into out.
func (s *Service) structured(ctx context.Context, feature llm.Purpose, tier llm.Tier, req llm.Request, out any) error {
	ctx = llm.WithPurpose(ctx, feature)
	if req.Temperature == 0 {
		req.Temperature = s.cfg.Temperature
	}

	resp, err := s.gw.For(tier).Generate(ctx, req)
	if err == nil {
		err = resp.Decode(out)
	}
	s.observe(feature, err)
	if err != nil {
		return fmt.Errorf("%s: %w", feature, err)
	}
	return nil
}

func (s *Service) observe(feature llm.Purpose, err error) {
	if s.metrics == nil {
		return
	}
	status := "error"
	switch f := llm.Classify(err); f {
	case llm.FailureNone, llm.FailureRateLimited:
		status = f.String()
	}
	s.metrics.CoachRequests.WithLabelValues(string(feature), status).Inc()
}
