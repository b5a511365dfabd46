// Package analysis runs gap analyses on behalf of a user: it gathers the
// profile and role, picks a scorer, persists the result and keeps the most
// recent results warm in memory.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/skillsense/internal/cache"
	"github.com/abhisek/skillsense/internal/catalog"
	"github.com/abhisek/skillsense/internal/gap"
	"github.com/abhisek/skillsense/internal/metrics"
	"github.com/abhisek/skillsense/internal/store"
)

var (
	// ErrInsufficientData means the user has no assessed skills yet.
	ErrInsufficientData = errors.New("no assessed skills yet: take an assessment first")

	// ErrUnknownRole means the target role does not exist.
	ErrUnknownRole = errors.New("unknown role")
)

// Config tunes the service.
type Config struct {
	// RecentCapacity bounds the in-memory recent-results cache.
	RecentCapacity int

	// RecentTTL is how long a cached result stays fresh.
	RecentTTL time.Duration
}

// DefaultConfig returns the default service settings.
func DefaultConfig() Config {
	return Config{RecentCapacity: 100, RecentTTL: 5 * time.Minute}
}

// Service is the caller of the gap scorer.
type Service struct {
	profiles store.ProfileRepo
	roles    store.RoleRepo
	history  store.AnalysisRepo

	local  gap.Scorer
	remote gap.Scorer

	recent  *cache.TTL[string, gap.Result]
	metrics *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithRemote enables a remote scorer, tried before the local one.
func WithRemote(s gap.Scorer) Option {
	return func(svc *Service) { svc.remote = s }
}

// WithMetrics records analysis counters on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(svc *Service) { svc.metrics = m }
}

// WithLocal replaces the default local scorer.
func WithLocal(s gap.Scorer) Option {
	return func(svc *Service) { svc.local = s }
}

// NewService wires an analysis service over the store.
func NewService(st *store.Store, cfg Config, opts ...Option) *Service {
	return newService(st.ProfileRepo(), st.RoleRepo(), st.AnalysisRepo(), cfg, opts...)
}

func newService(profiles store.ProfileRepo, roles store.RoleRepo, history store.AnalysisRepo, cfg Config, opts ...Option) *Service {
	svc := &Service{
		profiles: profiles,
		roles:    roles,
		history:  history,
		local:    gap.NewLocalScorer(gap.DefaultConfig()),
		recent:   cache.New[string, gap.Result](cfg.RecentCapacity, cfg.RecentTTL),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Analyze computes, stores and returns the gap analysis of userID against
// roleID.
func (s *Service) Analyze(ctx context.Context, userID, roleID string) (gap.Result, error) {
	role, err := s.roles.Get(ctx, roleID)
	if errors.Is(err, store.ErrNotFound) {
		return gap.Result{}, fmt.Errorf("%w: %q", ErrUnknownRole, roleID)
	}
	if err != nil {
		return gap.Result{}, fmt.Errorf("load role: %w", err)
	}

	skills, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return gap.Result{}, fmt.Errorf("load profile: %w", err)
	}
	if !hasAssessed(skills) {
		return gap.Result{}, ErrInsufficientData
	}

	in := gap.Input{
		UserID:       userID,
		Role:         role.Ref(),
		Skills:       skills,
		Requirements: role.Requirements,
	}
	res, err := s.score(ctx, in)
	if err != nil {
		return gap.Result{}, err
	}

	if err := s.history.Append(ctx, res); err != nil {
		return gap.Result{}, fmt.Errorf("save analysis: %w", err)
	}
	s.recent.Set(userID, res)
	s.recent.Set(recentKey(userID, roleID), res)

	if s.metrics != nil {
		s.metrics.Analyses.WithLabelValues(res.Scorer).Inc()
		s.metrics.Readiness.Observe(float64(res.OverallReadiness))
	}
	return res, nil
}

// score tries the remote scorer first. Its failures are logged and counted
// but never returned: the local scorer answers instead.
func (s *Service) score(ctx context.Context, in gap.Input) (gap.Result, error) {
	if s.remote != nil {
		res, err := s.remote.Score(ctx, in)
		if err == nil {
			return res, nil
		}
		if errors.Is(err, gap.ErrInvalidInput) {
			return gap.Result{}, err
		}
		slog.Warn("remote scorer failed, using local scorer",
			"user", in.UserID, "role", in.Role.ID, "error", err)
		if s.metrics != nil {
			s.metrics.ScorerFallbacks.Inc()
		}
	}
	return s.local.Score(ctx, in)
}

// Recent returns the newest result computed by this process for the user
// and, when roleID is non-empty, that role.
func (s *Service) Recent(userID, roleID string) (gap.Result, bool) {
	if roleID == "" {
		return s.recent.Get(userID)
	}
	return s.recent.Get(recentKey(userID, roleID))
}

// Forget drops the user's role-specific recent results so the next
// request for a role is scored against the current profile. The cached
// latest result is kept: it mirrors the newest stored analysis.
func (s *Service) Forget(userID string) {
	prefix := recentKey(userID, "")
	s.recent.DeleteFunc(func(k string) bool { return strings.HasPrefix(k, prefix) })
}

// Latest returns the user's newest stored result, or ok=false when there
// is none.
func (s *Service) Latest(ctx context.Context, userID string) (gap.Result, bool, error) {
	if res, ok := s.recent.Get(userID); ok {
		return res, true, nil
	}
	res, err := s.history.Latest(ctx, userID)
	if err != nil {
		return gap.Result{}, false, err
	}
	if res == nil {
		return gap.Result{}, false, nil
	}
	return *res, true, nil
}

// History returns up to limit stored results, newest first.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]gap.Result, error) {
	if limit <= 0 || limit > store.HistoryLimit {
		limit = store.HistoryLimit
	}
	return s.history.History(ctx, userID, limit)
}

// Roles lists the role catalog.
func (s *Service) Roles(ctx context.Context) ([]catalog.Role, error) {
	return s.roles.List(ctx)
}

// Role returns one role, mapping a missing role to ErrUnknownRole.
func (s *Service) Role(ctx context.Context, id string) (catalog.Role, error) {
	role, err := s.roles.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return catalog.Role{}, fmt.Errorf("%w: %q", ErrUnknownRole, id)
	}
	return role, err
}

func hasAssessed(skills map[string]gap.SkillProficiency) bool {
	for _, p := range skills {
		if p.Level > gap.MinLevel {
			return true
		}
	}
	return false
}

func recentKey(userID, roleID string) string {
	return strconv.Quote(userID) + "/" + roleID
}
