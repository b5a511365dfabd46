package assessment

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillsense/internal/catalog"
	"github.com/abhisek/skillsense/internal/gap"
	"github.com/abhisek/skillsense/internal/llm"
	"github.com/abhisek/skillsense/internal/profile"
	"github.com/abhisek/skillsense/internal/store"
)

func quizJSON(n int) map[string]any {
	qs := make([]map[string]any, n)
	for i := range qs {
		qs[i] = map[string]any{
			"text":          "What does a goroutine leak look like?",
			"options":       []string{"A", "B", "C", "D"},
			"correct_index": i % 4,
			"difficulty":    2,
			"explanation":   "Because.",
		}
	}
	return map[string]any{"questions": qs}
}

type fixture struct {
	svc   *Service
	mock  *llm.MockProvider
	store *store.Store
}

func newFixture(t *testing.T, responses ...llm.MockResponse) fixture {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "assess.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	c, err := catalog.Builtin()
	require.NoError(t, err)

	mock := llm.NewMockProvider(responses...)
	svc := NewService(mock, st.AssessmentRepo(), profile.NewService(st.ProfileRepo(), c), DefaultConfig())
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC) }
	ids := 0
	svc.newID = func() string {
		ids++
		return "quiz-" + strings.Repeat("x", ids)
	}
	return fixture{svc: svc, mock: mock, store: st}
}

func TestGenerate_UsesSchemaAndPurpose(t *testing.T) {
	f := newFixture(t, llm.MockJSON(quizJSON(3)))

	qs, err := f.svc.Generate(context.Background(), "Go", 3)
	require.NoError(t, err)
	require.Len(t, qs, 3)
	assert.Equal(t, 1, qs[1].Correct)

	req, ok := f.mock.LastCall()
	require.True(t, ok)
	assert.Equal(t, QuizSchema, req.Schema)
	assert.Contains(t, req.Messages[0].Content, "Skill: Go")
	assert.Contains(t, req.Messages[0].Content, "Number of questions: 3")
}

func TestGenerate_TrimsExtraQuestions(t *testing.T) {
	f := newFixture(t, llm.MockJSON(quizJSON(6)))
	qs, err := f.svc.Generate(context.Background(), "SQL", 4)
	require.NoError(t, err)
	assert.Len(t, qs, 4)
}

func TestGenerate_ClampsCount(t *testing.T) {
	f := newFixture(t, llm.MockJSON(quizJSON(5)))
	_, err := f.svc.Generate(context.Background(), "SQL", 0)
	require.NoError(t, err)
	req, _ := f.mock.LastCall()
	assert.Contains(t, req.Messages[0].Content, "Number of questions: 5")
}

func TestGenerate_RejectsDuplicateOptions(t *testing.T) {
	bad := quizJSON(1)
	bad["questions"].([]map[string]any)[0]["options"] = []string{"A", "A", "C", "D"}
	f := newFixture(t, llm.MockJSON(bad))

	_, err := f.svc.Generate(context.Background(), "Go", 1)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestGenerate_RateLimitSurfaces(t *testing.T) {
	f := newFixture(t, llm.MockResponse{Err: &llm.ErrRateLimit{}})
	_, err := f.svc.Generate(context.Background(), "Go", 2)
	assert.True(t, llm.IsRateLimit(err))
}

func TestStartAndSubmit(t *testing.T) {
	f := newFixture(t, llm.MockJSON(quizJSON(4)))
	ctx := context.Background()

	quiz, err := f.svc.Start(ctx, "u1", "go", 4)
	require.NoError(t, err)
	assert.Equal(t, "go", quiz.SkillID)
	assert.Equal(t, "Go", quiz.SkillName)
	for _, pq := range quiz.PublicQuestions() {
		assert.Len(t, pq.Options, 4)
	}

	// Correct indexes are 0,1,2,3; get three right.
	out, err := f.svc.Submit(ctx, "u1", quiz.ID, []int{0, 1, 2, 0})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Correct)
	assert.InDelta(t, 0.75, out.Score, 1e-9)
	assert.Equal(t, 4, out.Level)
	assert.InDelta(t, 0.9, out.Confidence, 1e-9)
	assert.Equal(t, 4, out.ProfileLevel)

	p, err := f.store.ProfileRepo().GetSkill(ctx, "u1", "go")
	require.NoError(t, err)
	assert.Equal(t, 4, p.Level)
	assert.Equal(t, gap.SourceQuiz, p.Source)

	_, err = f.svc.Submit(ctx, "u1", quiz.ID, []int{0, 1, 2, 3})
	assert.ErrorIs(t, err, store.ErrAlreadyCompleted)
}

func TestSubmit_OtherUser(t *testing.T) {
	f := newFixture(t, llm.MockJSON(quizJSON(2)))
	ctx := context.Background()

	quiz, err := f.svc.Start(ctx, "u1", "docker", 2)
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, "u2", quiz.ID, []int{0, 1})
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestSubmit_Unknown(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Submit(context.Background(), "u1", "missing", nil)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// flakyProfiles fails the first n writes.
type flakyProfiles struct {
	store.ProfileRepo
	failures int
}

func (f *flakyProfiles) Upsert(ctx context.Context, userID string, p gap.SkillProficiency) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("disk full")
	}
	return f.ProfileRepo.Upsert(ctx, userID, p)
}

func TestSubmit_ProfileFailureKeepsQuizOpen(t *testing.T) {
	f := newFixture(t, llm.MockJSON(quizJSON(2)))
	ctx := context.Background()

	c, err := catalog.Builtin()
	require.NoError(t, err)
	profiles := &flakyProfiles{ProfileRepo: f.store.ProfileRepo(), failures: 1}
	f.svc.profiles = profile.NewService(profiles, c)

	quiz, err := f.svc.Start(ctx, "u1", "go", 2)
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, "u1", quiz.ID, []int{0, 1})
	require.Error(t, err)

	a, err := f.store.AssessmentRepo().Get(ctx, quiz.ID)
	require.NoError(t, err)
	assert.False(t, a.Completed(), "quiz must stay open after a failed profile update")

	out, err := f.svc.Submit(ctx, "u1", quiz.ID, []int{0, 1})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Correct)

	p, err := f.store.ProfileRepo().GetSkill(ctx, "u1", "go")
	require.NoError(t, err)
	assert.Equal(t, out.Level, p.Level)
}

func TestSubmit_CompletedQuizLeavesProfileAlone(t *testing.T) {
	f := newFixture(t, llm.MockJSON(quizJSON(2)))
	ctx := context.Background()

	quiz, err := f.svc.Start(ctx, "u1", "go", 2)
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, "u1", quiz.ID, []int{0, 1})
	require.NoError(t, err)
	before, err := f.store.ProfileRepo().GetSkill(ctx, "u1", "go")
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, "u1", quiz.ID, []int{1, 0})
	assert.ErrorIs(t, err, store.ErrAlreadyCompleted)

	after, err := f.store.ProfileRepo().GetSkill(ctx, "u1", "go")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
