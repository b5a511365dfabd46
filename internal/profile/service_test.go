package profile

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillsense/internal/catalog"
	"github.com/abhisek/skillsense/internal/gap"
	"github.com/abhisek/skillsense/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "profile.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	c, err := catalog.Builtin()
	require.NoError(t, err)

	svc := NewService(s.ProfileRepo(), c)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestService_Resolve(t *testing.T) {
	svc := newTestService(t)

	id, name := svc.Resolve("node.js")
	assert.Equal(t, "nodejs", id)
	assert.Equal(t, "Node.js", name)

	id, name = svc.Resolve("Rust Lang")
	assert.Equal(t, "rust-lang", id)
	assert.Equal(t, "Rust Lang", name)
}

func TestService_SelfReportThenQuiz(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.SelfReport(ctx, "u1", "Go", 4)
	require.NoError(t, err)
	assert.Equal(t, "go", p.SkillID)
	assert.Equal(t, 4, p.Level)
	assert.Equal(t, gap.SourceSelfReport, p.Source)

	// (4*0.3 + 1*0.9) / 1.2 = 1.75
	merged, err := svc.Record(ctx, "u1", Observation("go", "Go", 1, 0.9, gap.SourceQuiz, svc.now()))
	require.NoError(t, err)
	assert.Equal(t, 2, merged.Level)
	assert.Equal(t, 0.9, merged.Confidence)
	assert.Equal(t, gap.SourceQuiz, merged.Source)

	skills, err := svc.Skills(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, skills["go"].Level)
}

func TestService_SelfReportRejectsOutOfRange(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.SelfReport(context.Background(), "u1", "Go", 7)
	assert.ErrorIs(t, err, gap.ErrInvalidInput)
}

func TestService_ListSortedAndRemove(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"SQL", "Docker", "Go"} {
		_, err := svc.SelfReport(ctx, "u1", name, 2)
		require.NoError(t, err)
	}

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Docker", list[0].SkillName)
	assert.Equal(t, "Go", list[1].SkillName)
	assert.Equal(t, "SQL", list[2].SkillName)

	require.NoError(t, svc.Remove(ctx, "u1", "docker"))
	assert.ErrorIs(t, svc.Remove(ctx, "u1", "docker"), store.ErrNotFound)

	list, err = svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestService_OnChange(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	var changed []string
	svc.OnChange(func(userID string) { changed = append(changed, userID) })

	_, err := svc.SelfReport(ctx, "u1", "Go", 3)
	require.NoError(t, err)
	_, err = svc.SelfReport(ctx, "u2", "Go", 9)
	require.Error(t, err)
	require.NoError(t, svc.Remove(ctx, "u1", "go"))

	assert.Equal(t, []string{"u1", "u1"}, changed)
}
