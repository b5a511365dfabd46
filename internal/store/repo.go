package store

import (
	"context"
	"time"

	"github.com/abhisek/skillsense/internal/catalog"
	"github.com/abhisek/skillsense/internal/gap"
)

// HistoryLimit is the number of gap analyses retained per user.
const HistoryLimit = 10

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	Purpose string    // exact purpose match
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
}

// ProfileRepo stores per-user skill proficiencies, one row per
// (user, skill).
type ProfileRepo interface {
	// Get returns the user's profile keyed by skill ID. A user without
	// observations has an empty, non-nil profile.
	Get(ctx context.Context, userID string) (map[string]gap.SkillProficiency, error)

	// GetSkill returns one proficiency, or ErrNotFound.
	GetSkill(ctx context.Context, userID, skillID string) (gap.SkillProficiency, error)

	// Upsert writes p, replacing any existing record for the same skill.
	Upsert(ctx context.Context, userID string, p gap.SkillProficiency) error

	// Delete removes one skill from the profile.
	Delete(ctx context.Context, userID, skillID string) error
}

// RoleRepo provides the role catalog.
type RoleRepo interface {
	List(ctx context.Context) ([]catalog.Role, error)

	// Get returns the role, or ErrNotFound. A role with no requirements
	// is returned normally.
	Get(ctx context.Context, id string) (catalog.Role, error)

	Upsert(ctx context.Context, role catalog.Role) error
}

// ResourceRepo provides the learning resource catalog.
type ResourceRepo interface {
	ForSkills(ctx context.Context, skillIDs []string) (map[string][]catalog.Resource, error)
	Upsert(ctx context.Context, r catalog.Resource) error
	Count(ctx context.Context) (int, error)
}

// AnalysisRepo is the append-only gap analysis history.
type AnalysisRepo interface {
	// Append stores res and prunes the user's history to the most recent
	// entries.
	Append(ctx context.Context, res gap.Result) error

	// History returns the user's results, newest first. limit <= 0 means
	// everything retained.
	History(ctx context.Context, userID string, limit int) ([]gap.Result, error)

	// Latest returns the user's newest result, or nil if none exist.
	Latest(ctx context.Context, userID string) (*gap.Result, error)
}

// Assessment is a stored quiz. Questions are kept as the JSON document
// produced by the assessment package.
type Assessment struct {
	ID          string
	UserID      string
	SkillID     string
	SkillName   string
	Questions   string
	Answers     []int
	Score       float64
	Level       int
	CreatedAt   time.Time
	CompletedAt time.Time // zero until submitted
}

// Completed reports whether answers have been submitted.
func (a *Assessment) Completed() bool {
	return !a.CompletedAt.IsZero()
}

// AssessmentRepo stores quizzes and their outcomes.
type AssessmentRepo interface {
	Create(ctx context.Context, a *Assessment) error

	// Get returns the assessment, or ErrNotFound.
	Get(ctx context.Context, id string) (*Assessment, error)

	// Complete records answers and the outcome. Completing twice fails.
	Complete(ctx context.Context, id string, answers []int, score float64, level int, at time.Time) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	CacheHit     bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM events by purpose or model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
