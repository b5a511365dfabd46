// Package assessment generates multiple-choice skill quizzes with the LLM
// gateway, scores submissions and folds the outcome into the profile.
package assessment

import (
	"errors"
	"fmt"
	"time"
)

// OptionsPerQuestion is the fixed number of choices on every question.
const OptionsPerQuestion = 4

// Question is one multiple-choice item.
type Question struct {
	Text        string   `json:"text"`
	Options     []string `json:"options"`
	Correct     int      `json:"correctIndex"`
	Difficulty  int      `json:"difficulty"`
	Explanation string   `json:"explanation,omitempty"`
}

// PublicQuestion is a Question with the answer key removed.
type PublicQuestion struct {
	Text       string   `json:"text"`
	Options    []string `json:"options"`
	Difficulty int      `json:"difficulty"`
}

// Public strips the answer key.
func (q Question) Public() PublicQuestion {
	return PublicQuestion{Text: q.Text, Options: q.Options, Difficulty: q.Difficulty}
}

// Quiz is a generated, persisted assessment awaiting answers.
type Quiz struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	SkillID   string     `json:"skillId"`
	SkillName string     `json:"skillName"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"createdAt"`
	// Completed is set on quizzes loaded after their answers were stored.
	Completed bool `json:"completed"`
}

// PublicQuestions returns the quiz's questions without answers.
func (q *Quiz) PublicQuestions() []PublicQuestion {
	out := make([]PublicQuestion, len(q.Questions))
	for i, qq := range q.Questions {
		out[i] = qq.Public()
	}
	return out
}

// Outcome is the result of a submitted quiz.
type Outcome struct {
	AssessmentID string  `json:"assessmentId"`
	SkillID      string  `json:"skillId"`
	SkillName    string  `json:"skillName"`
	Correct      int     `json:"correct"`
	Total        int     `json:"total"`
	Score        float64 `json:"score"`
	Level        int     `json:"level"`
	Confidence   float64 `json:"confidence"`

	// ProfileLevel is the user's level after merging this outcome.
	ProfileLevel int `json:"profileLevel"`
}

// Unanswered marks a skipped question in a submission.
const Unanswered = -1

var (
	// ErrAnswerCount means the submission does not match the question count.
	ErrAnswerCount = errors.New("answer count does not match question count")

	// ErrNotOwner means the assessment belongs to another user.
	ErrNotOwner = errors.New("assessment belongs to another user")
)

// ValidationError reports a structurally unusable generated question.
type ValidationError struct {
	Index   int
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("question %d: %s", e.Index+1, e.Message)
}
