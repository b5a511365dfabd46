package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillsense/internal/assessment"
	"github.com/abhisek/skillsense/internal/catalog"
	"github.com/abhisek/skillsense/internal/coach"
	"github.com/abhisek/skillsense/internal/gap"
	"github.com/abhisek/skillsense/internal/llm"
	"github.com/abhisek/skillsense/internal/recommend"
	"github.com/abhisek/skillsense/internal/store"
)

type fakeAssessor struct {
	answers []int
}

func (f *fakeAssessor) Start(_ context.Context, userID, skill string, count int) (*assessment.Quiz, error) {
	q := assessment.Question{Text: "Which command lists pods?", Options: []string{"kubectl get pods", "ls", "ps", "top"}, Correct: 0, Difficulty: 2}
	return &assessment.Quiz{ID: "q1", UserID: userID, SkillID: skill, SkillName: "Kubernetes", Questions: []assessment.Question{q, q, q}}, nil
}

func (f *fakeAssessor) Complete(_ context.Context, _ string, quiz *assessment.Quiz, answers []int) (assessment.Outcome, error) {
	f.answers = answers
	return assessment.Outcome{AssessmentID: quiz.ID, SkillName: quiz.SkillName, Correct: 1, Total: len(answers), Score: 0.33, Level: 2, ProfileLevel: 2, Confidence: 0.6}, nil
}

func TestRunPlainQuiz(t *testing.T) {
	a := &fakeAssessor{}
	in := strings.NewReader("a\nz\nB\n\n")
	var out bytes.Buffer

	res, err := runPlainQuiz(context.Background(), a, "u1", "kubernetes", 3, in, &out)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, assessment.Unanswered}, a.answers)
	assert.Equal(t, 2, res.Level)
	assert.Contains(t, out.String(), "Q1. Which command lists pods?")
	assert.Contains(t, out.String(), "A) kubectl get pods")
	assert.Contains(t, out.String(), "Enter a letter from A to D")
}

func TestRunPlainQuiz_EOFSkipsRemaining(t *testing.T) {
	a := &fakeAssessor{}
	_, err := runPlainQuiz(context.Background(), a, "u1", "kubernetes", 3, strings.NewReader("c\n"), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, []int{2, assessment.Unanswered, assessment.Unanswered}, a.answers)
}

type fakeChatter struct {
	calls   int
	history [][]llm.Message
	errs    []error
}

func (f *fakeChatter) Chat(_ context.Context, history []llm.Message, message string) (string, error) {
	f.calls++
	f.history = append(f.history, history)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return "", err
		}
	}
	return "reply to " + message, nil
}

func TestRunChat_KeepsHistory(t *testing.T) {
	c := &fakeChatter{}
	var out bytes.Buffer

	err := runChat(context.Background(), c, strings.NewReader("hello\nwhat next?\nexit\n"), &out)
	require.NoError(t, err)

	assert.Equal(t, 2, c.calls)
	assert.Empty(t, c.history[0])
	require.Len(t, c.history[1], 2)
	assert.Equal(t, llm.RoleUser, c.history[1][0].Role)
	assert.Equal(t, "reply to hello", c.history[1][1].Content)
	assert.Contains(t, out.String(), "reply to what next?")
}

func TestRunChat_RateLimitContinues(t *testing.T) {
	c := &fakeChatter{errs: []error{&llm.ErrRateLimit{RetryAfter: time.Second}}}
	var out bytes.Buffer

	err := runChat(context.Background(), c, strings.NewReader("one\ntwo\n"), &out)
	require.NoError(t, err)

	assert.Equal(t, 2, c.calls)
	assert.Contains(t, out.String(), "busy")
	assert.Empty(t, c.history[1], "failed turn is not kept")
}

func TestRenderReport(t *testing.T) {
	res := gap.Result{
		TargetRole:       gap.RoleRef{ID: "devops-engineer", Title: "DevOps Engineer"},
		OverallReadiness: 40,
		Gaps: []gap.SkillGap{
			{SkillName: "Kubernetes", CurrentLevel: 1, RequiredLevel: 4, GapSize: 3, Priority: gap.PriorityCritical, EstimatedTimeToClose: 42},
		},
		StrengthAreas:       []string{"Linux"},
		ImprovementAreas:    []string{"Kubernetes"},
		TotalEstimatedHours: 42,
		Scorer:              gap.ScorerLocal,
		AnalyzedAt:          time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	out := renderReport(res)
	assert.Contains(t, out, "DevOps Engineer")
	assert.Contains(t, out, "CRITICAL")
	assert.Contains(t, out, "Kubernetes")
	assert.Contains(t, out, "42.0")
	assert.Contains(t, out, "Linux")

	res.Gaps = nil
	assert.Contains(t, renderReport(res), "You meet every requirement")
}

func TestRenderRecommendations(t *testing.T) {
	recs := []recommend.Recommendation{
		{SkillName: "Docker", Priority: gap.PriorityHigh, GapSize: 2, Resources: []catalog.Resource{
			{Title: "Docker Deep Dive", URL: "https://example.com/docker", Provider: "Udemy", Kind: "course", Difficulty: catalog.Beginner, Rating: 4.7, DurationHours: 6, Free: true},
		}},
		{SkillName: "Helm", Priority: gap.PriorityLow, GapSize: 1},
	}
	out := renderRecommendations(recs)
	assert.Contains(t, out, "Docker Deep Dive")
	assert.Contains(t, out, "https://example.com/docker")
	assert.Contains(t, out, "free")
	assert.Contains(t, out, "no matching resources")

	assert.Equal(t, "Nothing to recommend: no skill gaps.\n", renderRecommendations(nil))
}

func TestRenderRoadmap(t *testing.T) {
	out := renderRoadmap(&coach.Roadmap{
		RoleTitle:  "Backend Developer",
		TotalWeeks: 6,
		Phases: []coach.Phase{
			{Title: "Foundations", Skills: []string{"SQL"}, Weeks: 2, Milestones: []string{"Model a schema"}},
			{Title: "Services", Skills: []string{"Go"}, Weeks: 4},
		},
	})
	assert.Contains(t, out, "Roadmap to Backend Developer (6 weeks)")
	assert.Contains(t, out, "Phase 2: Services")
	assert.Contains(t, out, "• Model a schema")
}

func TestRenderProfile_Empty(t *testing.T) {
	assert.Contains(t, renderProfile(nil), "No skills recorded yet")
}

func TestFilterSkills(t *testing.T) {
	skills := []catalog.Skill{
		{ID: "docker", Category: "DevOps"},
		{ID: "go", Category: "backend"},
	}
	assert.Len(t, filterSkills(skills, ""), 2)
	got := filterSkills(skills, "devops")
	require.Len(t, got, 1)
	assert.Equal(t, "docker", got[0].ID)
}

func TestWriteUsage(t *testing.T) {
	var out bytes.Buffer
	writeUsage(&out,
		[]store.LLMUsage{{Purpose: "chat", Calls: 2, InputTokens: 100, OutputTokens: 50, AvgLatencyMs: 300}},
		[]store.LLMUsage{{Model: "not-a-priced-model", Calls: 2, InputTokens: 100, OutputTokens: 50}})

	s := out.String()
	assert.Contains(t, s, "chat")
	assert.Contains(t, s, "150")
	assert.Contains(t, s, "TOTAL (partial)")
	assert.Contains(t, s, "Pricing unavailable for: not-a-priced-model")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Kuber…", truncate("Kubernetes", 6))
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0012", formatCost(0.0012))
	assert.Equal(t, "$1.50", formatCost(1.5))
}
