package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/skillsense/internal/catalog"
	"github.com/abhisek/skillsense/internal/gap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.ProfileRepo().Upsert(ctx, "u1", gap.SkillProficiency{
		SkillID: "go", SkillName: "Go", Level: 3, Confidence: 0.8, Source: gap.SourceQuiz,
	}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	p, err := s.ProfileRepo().GetSkill(ctx, "u1", "go")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Level)
}

func TestProfileRepo(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProfileRepo()
	ctx := context.Background()

	empty, err := repo.Get(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	at := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(ctx, "u1", gap.SkillProficiency{
		SkillID: "go", SkillName: "Go", Level: 2, Confidence: 0.5, Source: gap.SourceSelfReport, UpdatedAt: at,
	}))
	require.NoError(t, repo.Upsert(ctx, "u1", gap.SkillProficiency{
		SkillID: "sql", SkillName: "SQL", Level: 4, Confidence: 0.9, Source: gap.SourceQuiz, UpdatedAt: at,
	}))
	require.NoError(t, repo.Upsert(ctx, "u2", gap.SkillProficiency{
		SkillID: "go", SkillName: "Go", Level: 5, Confidence: 1, Source: gap.SourceQuiz, UpdatedAt: at,
	}))

	// Upsert replaces the existing (user, skill) row.
	require.NoError(t, repo.Upsert(ctx, "u1", gap.SkillProficiency{
		SkillID: "go", SkillName: "Go", Level: 3, Confidence: 0.7, Source: gap.SourceQuiz, UpdatedAt: at.Add(time.Hour),
	}))

	prof, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, prof, 2)
	assert.Equal(t, 3, prof["go"].Level)
	assert.Equal(t, gap.SourceQuiz, prof["go"].Source)
	assert.InDelta(t, 0.7, prof["go"].Confidence, 1e-9)
	assert.True(t, prof["go"].UpdatedAt.Equal(at.Add(time.Hour)))

	_, err = repo.GetSkill(ctx, "u1", "rust")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Delete(ctx, "u1", "sql"))
	assert.ErrorIs(t, repo.Delete(ctx, "u1", "sql"), ErrNotFound)

	prof, err = repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, prof, 1)
}

func TestRoleRepo(t *testing.T) {
	s := openTestStore(t)
	repo := s.RoleRepo()
	ctx := context.Background()

	_, err := repo.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Upsert(ctx, catalog.Role{ID: "empty", Title: "Empty Role"}))
	role, err := repo.Get(ctx, "empty")
	require.NoError(t, err, "a role without requirements is distinct from a missing role")
	assert.Empty(t, role.Requirements)

	require.NoError(t, repo.Upsert(ctx, catalog.Role{
		ID:    "backend",
		Title: "Backend Developer",
		Requirements: []gap.RoleRequirement{
			{SkillID: "go", SkillName: "Go", RequiredLevel: 3, Importance: gap.MustHave},
		},
	}))
	role, err = repo.Get(ctx, "backend")
	require.NoError(t, err)
	require.Len(t, role.Requirements, 1)
	assert.Equal(t, gap.MustHave, role.Requirements[0].Importance)

	roles, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 2)
	assert.Equal(t, "Backend Developer", roles[0].Title)
}

func TestSeedAndResources(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.EnsureSeeded(ctx))
	c, err := catalog.Builtin()
	require.NoError(t, err)

	n, err := s.ResourceRepo().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(c.Resources), n)

	// Seeding again is idempotent.
	res, err := s.Seed(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, len(c.Roles), res.Roles)
	n, err = s.ResourceRepo().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(c.Resources), n)

	bySkill, err := s.ResourceRepo().ForSkills(ctx, []string{"go", "sql", "cobol"})
	require.NoError(t, err)
	assert.Len(t, bySkill["go"], len(c.ResourcesFor("go")))
	assert.NotEmpty(t, bySkill["sql"])
	assert.Empty(t, bySkill["cobol"])
	for _, r := range bySkill["go"] {
		assert.Equal(t, "go", r.SkillID)
		assert.NotEmpty(t, r.Difficulty)
	}

	roles, err := s.RoleRepo().List(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, len(c.Roles))
}

func TestAnalysisRepo_HistoryRetention(t *testing.T) {
	s := openTestStore(t)
	repo := s.AnalysisRepo()
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 12 {
		require.NoError(t, repo.Append(ctx, gap.Result{
			ID:               fmt.Sprintf("r%02d", i),
			UserID:           "u1",
			TargetRole:       gap.RoleRef{ID: "backend", Title: "Backend"},
			OverallReadiness: i,
			Scorer:           gap.ScorerLocal,
			AnalyzedAt:       base.Add(time.Duration(i) * time.Hour),
		}))
	}
	require.NoError(t, repo.Append(ctx, gap.Result{ID: "other", UserID: "u2", AnalyzedAt: base}))

	hist, err := repo.History(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, hist, HistoryLimit)
	assert.Equal(t, "r11", hist[0].ID, "newest first")
	assert.Equal(t, "r02", hist[len(hist)-1].ID)
	assert.NotNil(t, hist[0].Gaps)

	hist, err = repo.History(ctx, "u1", 3)
	require.NoError(t, err)
	assert.Len(t, hist, 3)

	latest, err := repo.Latest(ctx, "u2")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "other", latest.ID)

	latest, err = repo.Latest(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestAnalysisRepo_FirstAppendAndSubSecondOrder(t *testing.T) {
	s := openTestStore(t)
	repo := s.AnalysisRepo()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Append(ctx, gap.Result{ID: "first", UserID: "u1", AnalyzedAt: base}))

	hist, err := repo.History(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, hist, 1)

	for i := 1; i <= 12; i++ {
		require.NoError(t, repo.Append(ctx, gap.Result{
			ID:         fmt.Sprintf("s%02d", i),
			UserID:     "u1",
			AnalyzedAt: base.Add(time.Duration(i) * 150 * time.Millisecond),
		}))
	}

	hist, err = repo.History(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, hist, HistoryLimit)
	for i, res := range hist {
		assert.Equal(t, fmt.Sprintf("s%02d", 12-i), res.ID)
	}
}

func TestAssessmentRepo(t *testing.T) {
	s := openTestStore(t)
	repo := s.AssessmentRepo()
	ctx := context.Background()

	a := &Assessment{ID: "a1", UserID: "u1", SkillID: "go", SkillName: "Go", Questions: `[]`}
	require.NoError(t, repo.Create(ctx, a))

	got, err := repo.Get(ctx, "a1")
	require.NoError(t, err)
	assert.False(t, got.Completed())
	assert.Empty(t, got.Answers)

	at := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Complete(ctx, "a1", []int{0, 2, 1}, 0.66, 3, at))

	got, err = repo.Get(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, got.Completed())
	assert.Equal(t, []int{0, 2, 1}, got.Answers)
	assert.Equal(t, 3, got.Level)

	err = repo.Complete(ctx, "a1", []int{0}, 1, 5, at)
	assert.True(t, errors.Is(err, ErrAlreadyCompleted))

	err = repo.Complete(ctx, "missing", nil, 0, 0, at)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEventRepo(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "groq", Model: "llama-3.1-8b-instant", Purpose: "assessment", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true},
		{Provider: "groq", Model: "llama-3.3-70b-versatile", Purpose: "resume-critique", InputTokens: 1000, OutputTokens: 400, LatencyMs: 1200, Success: true},
		{Provider: "groq", Model: "llama-3.1-8b-instant", Purpose: "assessment", InputTokens: 120, OutputTokens: 70, LatencyMs: 400, Success: false, ErrorMessage: "rate limited"},
		{Provider: "groq", Model: "llama-3.1-8b-instant", Purpose: "assessment", CacheHit: true, Success: true},
	}
	for _, e := range events {
		require.NoError(t, repo.AppendLLMRequest(ctx, e))
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Greater(t, all[0].Sequence, all[1].Sequence, "newest first")
	assert.True(t, all[0].CacheHit)

	filtered, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "resume-critique"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	e, err := repo.GetLLMEvent(ctx, filtered[0].ID)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, 1000, e.InputTokens)

	e, err = repo.GetLLMEvent(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, e)

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	assert.Equal(t, "assessment", byPurpose[0].Purpose)
	assert.Equal(t, 2, byPurpose[0].Calls, "cache hits are not upstream calls")
	assert.Equal(t, 220, byPurpose[0].InputTokens)
	assert.Equal(t, int64(300), byPurpose[0].AvgLatencyMs)

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 2)
	assert.Equal(t, "llama-3.1-8b-instant", byModel[0].Model)
}

func TestSequenceCounterMonotonic(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var prev int64
	for i := range 5 {
		n, err := s.seq.Next(ctx)
		require.NoError(t, err)
		if i > 0 && n != prev+1 {
			t.Fatalf("sequence %d after %d", n, prev)
		}
		prev = n
	}
}
