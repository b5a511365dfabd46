package analysis

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillsense/internal/catalog"
	"github.com/abhisek/skillsense/internal/gap"
	"github.com/abhisek/skillsense/internal/metrics"
	"github.com/abhisek/skillsense/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "analysis.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	c, err := catalog.Builtin()
	require.NoError(t, err)
	_, err = s.Seed(context.Background(), c)
	require.NoError(t, err)
	return s
}

func setSkill(t *testing.T, s *store.Store, userID, skillID string, level int) {
	t.Helper()
	err := s.ProfileRepo().Upsert(context.Background(), userID, gap.SkillProficiency{
		SkillID: skillID, SkillName: skillID, Level: level, Confidence: 0.8, Source: gap.SourceQuiz,
	})
	require.NoError(t, err)
}

type stubScorer struct {
	res   gap.Result
	err   error
	calls int
}

func (s *stubScorer) Score(_ context.Context, in gap.Input) (gap.Result, error) {
	s.calls++
	if s.err != nil {
		return gap.Result{}, s.err
	}
	res := s.res
	res.UserID = in.UserID
	res.TargetRole = in.Role
	return res, nil
}

func (s *stubScorer) Name() string { return gap.ScorerRemote }

func TestAnalyze_UnknownRole(t *testing.T) {
	s := openStore(t)
	setSkill(t, s, "u1", "go", 3)

	_, err := NewService(s, DefaultConfig()).Analyze(context.Background(), "u1", "astronaut")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestAnalyze_InsufficientData(t *testing.T) {
	s := openStore(t)
	svc := NewService(s, DefaultConfig())

	_, err := svc.Analyze(context.Background(), "u1", "backend-developer")
	assert.ErrorIs(t, err, ErrInsufficientData)

	// Unassessed entries do not count.
	setSkill(t, s, "u1", "go", 0)
	_, err = svc.Analyze(context.Background(), "u1", "backend-developer")
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestAnalyze_LocalPersistsAndCaches(t *testing.T) {
	s := openStore(t)
	setSkill(t, s, "u1", "go", 3)
	setSkill(t, s, "u1", "sql", 1)
	m := metrics.New()
	svc := NewService(s, DefaultConfig(), WithMetrics(m))
	ctx := context.Background()

	res, err := svc.Analyze(ctx, "u1", "backend-developer")
	require.NoError(t, err)
	assert.Equal(t, gap.ScorerLocal, res.Scorer)
	assert.Equal(t, "u1", res.UserID)
	assert.Equal(t, "backend-developer", res.TargetRole.ID)
	assert.Contains(t, res.StrengthAreas, "Go")
	for _, g := range res.Gaps {
		assert.Positive(t, g.GapSize)
	}

	recent, ok := svc.Recent("u1", "backend-developer")
	require.True(t, ok)
	assert.Equal(t, res.ID, recent.ID)
	_, ok = svc.Recent("u1", "frontend-developer")
	assert.False(t, ok)

	hist, err := svc.History(ctx, "u1", 5)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, res.ID, hist[0].ID)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Analyses.WithLabelValues(gap.ScorerLocal)))
}

func TestForget_DropsRoleResultsForUser(t *testing.T) {
	s := openStore(t)
	setSkill(t, s, "u1", "go", 3)
	setSkill(t, s, "u10", "go", 3)
	svc := NewService(s, DefaultConfig())
	ctx := context.Background()

	res, err := svc.Analyze(ctx, "u1", "backend-developer")
	require.NoError(t, err)
	_, err = svc.Analyze(ctx, "u10", "backend-developer")
	require.NoError(t, err)

	svc.Forget("u1")

	_, ok := svc.Recent("u1", "backend-developer")
	assert.False(t, ok)
	_, ok = svc.Recent("u10", "backend-developer")
	assert.True(t, ok, "other users keep their results")

	latest, ok, err := svc.Latest(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, res.ID, latest.ID)
}

func TestAnalyze_RemoteUsedWhenHealthy(t *testing.T) {
	s := openStore(t)
	setSkill(t, s, "u1", "go", 3)
	remote := &stubScorer{res: gap.Result{ID: "r-1", Scorer: gap.ScorerRemote, Gaps: []gap.SkillGap{}}}

	res, err := NewService(s, DefaultConfig(), WithRemote(remote)).Analyze(context.Background(), "u1", "backend-developer")
	require.NoError(t, err)
	assert.Equal(t, gap.ScorerRemote, res.Scorer)
	assert.Equal(t, 1, remote.calls)
}

func TestAnalyze_DegradedModeFallsBackSilently(t *testing.T) {
	s := openStore(t)
	setSkill(t, s, "u1", "go", 3)
	m := metrics.New()
	remote := &stubScorer{err: gap.ErrRemoteUnavailable}

	res, err := NewService(s, DefaultConfig(), WithRemote(remote), WithMetrics(m)).
		Analyze(context.Background(), "u1", "backend-developer")
	require.NoError(t, err)
	assert.Equal(t, gap.ScorerLocal, res.Scorer)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScorerFallbacks))
}

func TestAnalyze_InvalidInputNotMasked(t *testing.T) {
	s := openStore(t)
	setSkill(t, s, "u1", "go", 3)
	remote := &stubScorer{err: gap.ErrInvalidInput}

	_, err := NewService(s, DefaultConfig(), WithRemote(remote)).Analyze(context.Background(), "u1", "backend-developer")
	assert.ErrorIs(t, err, gap.ErrInvalidInput)
}

func TestLatest(t *testing.T) {
	s := openStore(t)
	setSkill(t, s, "u1", "go", 3)
	ctx := context.Background()

	svc := NewService(s, DefaultConfig())
	_, ok, err := svc.Latest(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	first, err := svc.Analyze(ctx, "u1", "backend-developer")
	require.NoError(t, err)

	// A fresh service has a cold cache and reads from the store.
	got, ok, err := NewService(s, DefaultConfig()).Latest(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first.ID, got.ID)
}

func TestHistory_RetainsTen(t *testing.T) {
	s := openStore(t)
	setSkill(t, s, "u1", "go", 3)
	svc := NewService(s, DefaultConfig())
	ctx := context.Background()

	var last gap.Result
	for range 12 {
		res, err := svc.Analyze(ctx, "u1", "backend-developer")
		require.NoError(t, err)
		last = res
	}

	hist, err := svc.History(ctx, "u1", 50)
	require.NoError(t, err)
	require.Len(t, hist, store.HistoryLimit)
	assert.Equal(t, last.ID, hist[0].ID)
}

func TestRole(t *testing.T) {
	s := openStore(t)
	svc := NewService(s, DefaultConfig())

	role, err := svc.Role(context.Background(), "devops-engineer")
	require.NoError(t, err)
	assert.NotEmpty(t, role.Requirements)

	_, err = svc.Role(context.Background(), "nope")
	assert.True(t, errors.Is(err, ErrUnknownRole))

	roles, err := svc.Roles(context.Background())
	require.NoError(t, err)
	assert.Len(t, roles, 5)
}
