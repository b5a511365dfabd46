package gap

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

// MaxAreas caps the strength and improvement area lists.
const MaxAreas = 5

// Config controls the deterministic scorer.
type Config struct {
	// PerLevelHours is the base remediation time for one level of gap.
	PerLevelHours float64

	// MaxAreas caps StrengthAreas and ImprovementAreas.
	MaxAreas int

	// Now stamps AnalyzedAt. Defaults to time.Now.
	Now func() time.Time

	// NewID assigns result identifiers. Defaults to a random UUID.
	NewID func() string
}

// DefaultConfig returns the standard scoring constants.
func DefaultConfig() Config {
	return Config{
		PerLevelHours: PerLevelBaseHours,
		MaxAreas:      MaxAreas,
		Now:           time.Now,
		NewID:         func() string { return uuid.NewString() },
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.PerLevelHours <= 0 {
		c.PerLevelHours = d.PerLevelHours
	}
	if c.MaxAreas <= 0 {
		c.MaxAreas = d.MaxAreas
	}
	if c.Now == nil {
		c.Now = d.Now
	}
	if c.NewID == nil {
		c.NewID = d.NewID
	}
	return c
}

// Analyze computes the gap analysis for one (user, role) pair in a single
// pass over the requirements. It is pure apart from the clock and ID
// generator in cfg and never fails; call Validate first for untrusted input.
func Analyze(in Input, cfg Config) Result {
	cfg = cfg.withDefaults()

	gaps := make([]SkillGap, 0, len(in.Requirements))
	strengths := make([]string, 0, len(in.Requirements))

	for _, r := range in.Requirements {
		current := 0
		if p, ok := in.Skills[r.SkillID]; ok {
			current = p.Level
		}
		size := r.RequiredLevel - current
		if size <= 0 {
			strengths = append(strengths, r.SkillName)
			continue
		}
		gaps = append(gaps, SkillGap{
			SkillID:              r.SkillID,
			SkillName:            r.SkillName,
			CurrentLevel:         current,
			RequiredLevel:        r.RequiredLevel,
			GapSize:              size,
			Priority:             PriorityFor(float64(size), r.Importance),
			Importance:           r.Importance,
			EstimatedTimeToClose: EstimateHours(size, r.RequiredLevel, cfg.PerLevelHours),
		})
	}

	SortGaps(gaps)

	improvements := make([]string, 0, len(gaps))
	var total float64
	for _, g := range gaps {
		improvements = append(improvements, g.SkillName)
		total += g.EstimatedTimeToClose
	}

	return Result{
		ID:                  cfg.NewID(),
		UserID:              in.UserID,
		TargetRole:          in.Role,
		Gaps:                gaps,
		OverallReadiness:    Readiness(len(strengths), len(in.Requirements)),
		StrengthAreas:       capAreas(strengths, cfg.MaxAreas),
		ImprovementAreas:    capAreas(improvements, cfg.MaxAreas),
		TotalEstimatedHours: total,
		Scorer:              ScorerLocal,
		AnalyzedAt:          cfg.Now().UTC(),
	}
}

// SortGaps orders gaps by severity, keeping requirement order within a tier.
func SortGaps(gaps []SkillGap) {
	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].Priority.Severity() < gaps[j].Priority.Severity()
	})
}

// Readiness is the rounded percentage of requirements already met.
// A role without requirements has zero readiness.
func Readiness(met, total int) int {
	if total <= 0 {
		return 0
	}
	r := int(math.Round(100 * float64(met) / float64(total)))
	return min(max(r, 0), 100)
}

func capAreas(areas []string, n int) []string {
	if len(areas) > n {
		areas = areas[:n]
	}
	out := make([]string, len(areas))
	copy(out, areas)
	return out
}

// Scorer names recorded on results.
const (
	ScorerLocal  = "local"
	ScorerRemote = "remote"
)

// Scorer produces a gap analysis. Implementations must uphold the result
// invariants regardless of where the numbers come from.
type Scorer interface {
	Score(ctx context.Context, in Input) (Result, error)
	Name() string
}

// LocalScorer is the deterministic in-process scorer.
type LocalScorer struct {
	cfg Config
}

var _ Scorer = (*LocalScorer)(nil)

// NewLocalScorer creates a LocalScorer.
func NewLocalScorer(cfg Config) *LocalScorer {
	return &LocalScorer{cfg: cfg.withDefaults()}
}

// Score validates the input and runs Analyze.
func (s *LocalScorer) Score(_ context.Context, in Input) (Result, error) {
	if err := Validate(in); err != nil {
		return Result{}, err
	}
	return Analyze(in, s.cfg), nil
}

// Name returns "local".
func (s *LocalScorer) Name() string { return ScorerLocal }
