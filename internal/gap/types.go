package gap

import "time"

// Source records where a proficiency observation came from.
type Source string

const (
	SourceSelfReport   Source = "self-report"
	SourceQuiz         Source = "quiz"
	SourceAIAssessment Source = "ai-assessment"
)

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	switch s {
	case SourceSelfReport, SourceQuiz, SourceAIAssessment:
		return true
	}
	return false
}

// Importance is how much a role cares about a skill, independent of gap size.
type Importance string

const (
	MustHave   Importance = "must_have"
	GoodToHave Importance = "good_to_have"
	NiceToHave Importance = "nice_to_have"
)

// Valid reports whether i is a known importance.
func (i Importance) Valid() bool {
	switch i {
	case MustHave, GoodToHave, NiceToHave:
		return true
	}
	return false
}

// Priority is the remediation urgency of a gap.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Severity ranks priorities; lower is more severe.
func (p Priority) Severity() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	default:
		return 3
	}
}

// Proficiency levels.
const (
	MinLevel = 0
	MaxLevel = 5

	MinRequiredLevel = 1
)

// SkillProficiency is one user's measured level in one skill.
type SkillProficiency struct {
	SkillID    string    `json:"skillId"`
	SkillName  string    `json:"skillName"`
	Level      int       `json:"level"`
	Confidence float64   `json:"confidence"`
	Source     Source    `json:"source"`
	UpdatedAt  time.Time `json:"updatedAt,omitzero"`
}

// RoleRequirement is one role's expectation for one skill.
type RoleRequirement struct {
	SkillID       string     `json:"skillId"`
	SkillName     string     `json:"skillName"`
	RequiredLevel int        `json:"requiredLevel"`
	Importance    Importance `json:"importance"`
}

// RoleRef identifies the role an analysis was run against.
type RoleRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// SkillGap is the computed delta for one skill.
type SkillGap struct {
	SkillID              string     `json:"skillId"`
	SkillName            string     `json:"skillName"`
	CurrentLevel         int        `json:"currentLevel"`
	RequiredLevel        int        `json:"requiredLevel"`
	GapSize              int        `json:"gapSize"`
	Priority             Priority   `json:"priority"`
	Importance           Importance `json:"importance"`
	EstimatedTimeToClose float64    `json:"estimatedTimeToClose"`
}

// Result is the aggregate output of one analysis run. Results are
// snapshots and are never mutated after creation.
type Result struct {
	ID                  string     `json:"id"`
	UserID              string     `json:"userId"`
	TargetRole          RoleRef    `json:"targetRole"`
	Gaps                []SkillGap `json:"gaps"`
	OverallReadiness    int        `json:"overallReadiness"`
	StrengthAreas       []string   `json:"strengthAreas"`
	ImprovementAreas    []string   `json:"improvementAreas"`
	TotalEstimatedHours float64    `json:"totalEstimatedHours"`
	Scorer              string     `json:"scorer"`
	AnalyzedAt          time.Time  `json:"analyzedAt"`
}

// Input is everything the scorer needs for one (user, role) pair.
type Input struct {
	UserID       string
	Role         RoleRef
	Skills       map[string]SkillProficiency
	Requirements []RoleRequirement
}
