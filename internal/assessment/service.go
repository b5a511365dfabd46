package assessment

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/skillsense/internal/gap"
	"github.com/abhisek/skillsense/internal/llm"
	"github.com/abhisek/skillsense/internal/metrics"
	"github.com/abhisek/skillsense/internal/profile"
	"github.com/abhisek/skillsense/internal/store"
)

// Config controls quiz generation.
type Config struct {
	// DefaultCount is used when a caller asks for zero questions.
	DefaultCount int

	// MaxCount caps the questions per quiz.
	MaxCount int

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns the recommended defaults.
func DefaultConfig() Config {
	return Config{
		DefaultCount: 5,
		MaxCount:     15,
		MaxTokens:    2048,
		Temperature:  0.7,
	}
}

// Service runs assessments end to end.
type Service struct {
	provider llm.Provider
	repo     store.AssessmentRepo
	profiles *profile.Service
	cfg      Config
	metrics  *metrics.Metrics

	now   func() time.Time
	newID func() string
}

// NewService creates an assessment service. provider should be the fast
// tier of the gateway.
func NewService(provider llm.Provider, repo store.AssessmentRepo, profiles *profile.Service, cfg Config) *Service {
	return &Service{
		provider: provider,
		repo:     repo,
		profiles: profiles,
		cfg:      cfg,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// SetMetrics enables assessment counters.
func (s *Service) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

type quizOutput struct {
	Questions []struct {
		Text        string   `json:"text"`
		Options     []string `json:"options"`
		Correct     int      `json:"correct_index"`
		Difficulty  int      `json:"difficulty"`
		Explanation string   `json:"explanation"`
	} `json:"questions"`
}

// Generate asks the LLM for count questions on skillName.
func (s *Service) Generate(ctx context.Context, skillName string, count int) ([]Question, error) {
	count = s.clampCount(count)
	ctx = llm.WithPurpose(ctx, llm.PurposeAssessment)

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(skillName, count, nil)},
		},
		Schema:      QuizSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("question generation: %w", err)
	}

	var out quizOutput
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("parse questions: %w", err)
	}

	qs := make([]Question, 0, len(out.Questions))
	for _, q := range out.Questions {
		qs = append(qs, Question{
			Text:        q.Text,
			Options:     q.Options,
			Correct:     q.Correct,
			Difficulty:  q.Difficulty,
			Explanation: q.Explanation,
		})
	}
	if len(qs) > count {
		qs = qs[:count]
	}
	if err := validateQuestions(qs); err != nil {
		return nil, err
	}
	return qs, nil
}

// Start generates a quiz for the skill and stores it for later submission.
func (s *Service) Start(ctx context.Context, userID, skill string, count int) (*Quiz, error) {
	skillID, skillName := s.profiles.Resolve(skill)
	if skillID == "" {
		return nil, fmt.Errorf("empty skill: %w", gap.ErrInvalidInput)
	}

	qs, err := s.Generate(ctx, skillName, count)
	if err != nil {
		return nil, err
	}

	quiz := &Quiz{
		ID:        s.newID(),
		UserID:    userID,
		SkillID:   skillID,
		SkillName: skillName,
		Questions: qs,
		CreatedAt: s.now().UTC(),
	}
	data, err := json.Marshal(qs)
	if err != nil {
		return nil, fmt.Errorf("marshal questions: %w", err)
	}
	err = s.repo.Create(ctx, &store.Assessment{
		ID:        quiz.ID,
		UserID:    userID,
		SkillID:   skillID,
		SkillName: skillName,
		Questions: string(data),
		CreatedAt: quiz.CreatedAt,
	})
	if err != nil {
		return nil, err
	}
	return quiz, nil
}

// Get loads a stored quiz.
func (s *Service) Get(ctx context.Context, id string) (*Quiz, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var qs []Question
	if err := json.Unmarshal([]byte(a.Questions), &qs); err != nil {
		return nil, fmt.Errorf("unmarshal questions: %w", err)
	}
	return &Quiz{
		ID:        a.ID,
		UserID:    a.UserID,
		SkillID:   a.SkillID,
		SkillName: a.SkillName,
		Questions: qs,
		CreatedAt: a.CreatedAt,
		Completed: a.Completed(),
	}, nil
}

// Submit loads the quiz and completes it with answers.
func (s *Service) Submit(ctx context.Context, userID, id string, answers []int) (Outcome, error) {
	quiz, err := s.Get(ctx, id)
	if err != nil {
		return Outcome{}, err
	}
	return s.Complete(ctx, userID, quiz, answers)
}

// Complete scores answers, merges a quiz observation into the user's
// profile and then stores the outcome. The quiz stays open when the
// profile update fails, so the same answers can be submitted again.
func (s *Service) Complete(ctx context.Context, userID string, quiz *Quiz, answers []int) (Outcome, error) {
	if quiz.UserID != userID {
		return Outcome{}, ErrNotOwner
	}
	if quiz.Completed {
		return Outcome{}, fmt.Errorf("assessment %q: %w", quiz.ID, store.ErrAlreadyCompleted)
	}

	score, correct, err := Score(quiz.Questions, answers)
	if err != nil {
		return Outcome{}, err
	}
	level := LevelFor(score)
	now := s.now()

	conf := ConfidenceFor(len(quiz.Questions))
	merged, err := s.profiles.Record(ctx, userID,
		profile.Observation(quiz.SkillID, quiz.SkillName, level, conf, gap.SourceQuiz, now))
	if err != nil {
		return Outcome{}, fmt.Errorf("update profile: %w", err)
	}

	if err := s.repo.Complete(ctx, quiz.ID, answers, score, level, now); err != nil {
		return Outcome{}, err
	}

	if s.metrics != nil {
		s.metrics.Assessments.WithLabelValues(strconv.Itoa(level)).Inc()
	}

	return Outcome{
		AssessmentID: quiz.ID,
		SkillID:      quiz.SkillID,
		SkillName:    quiz.SkillName,
		Correct:      correct,
		Total:        len(quiz.Questions),
		Score:        score,
		Level:        level,
		Confidence:   conf,
		ProfileLevel: merged.Level,
	}, nil
}

func (s *Service) clampCount(n int) int {
	if n <= 0 {
		n = s.cfg.DefaultCount
	}
	if s.cfg.MaxCount > 0 && n > s.cfg.MaxCount {
		n = s.cfg.MaxCount
	}
	return max(n, 1)
}
