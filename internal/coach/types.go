// Package coach holds the LLM-backed career coaching features: resume
// critique, mock interviews, learning roadmaps and free-form chat.
package coach

import "errors"

// ErrEmptyInput is returned when a required text input is blank.
var ErrEmptyInput = errors.New("input is empty")

// DetectedSkill is a skill the critique found evidence of in a resume.
type DetectedSkill struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// Critique is the structured review of a resume.
type Critique struct {
	Score       int             `json:"score"`
	Summary     string          `json:"summary"`
	Strengths   []string        `json:"strengths"`
	Weaknesses  []string        `json:"weaknesses"`
	Suggestions []string        `json:"suggestions"`
	Skills      []DetectedSkill `json:"detectedSkills"`
}

// InterviewQuestion is one mock interview prompt.
type InterviewQuestion struct {
	Question string `json:"question"`
	Topic    string `json:"topic"`
	Kind     string `json:"kind"` // technical or behavioral
}

// Evaluation grades one interview answer.
type Evaluation struct {
	Score          int      `json:"score"`
	Feedback       string   `json:"feedback"`
	Strengths      []string `json:"strengths"`
	Improvements   []string `json:"improvements"`
	ImprovedAnswer string   `json:"improvedAnswer"`
}

// Phase is one stage of a learning roadmap.
type Phase struct {
	Title      string   `json:"title"`
	Skills     []string `json:"skills"`
	Weeks      int      `json:"weeks"`
	Milestones []string `json:"milestones"`
}

// Roadmap is an ordered learning plan towards a role.
type Roadmap struct {
	RoleID     string  `json:"roleId"`
	RoleTitle  string  `json:"roleTitle"`
	Summary    string  `json:"summary"`
	TotalWeeks int     `json:"totalWeeks"`
	Phases     []Phase `json:"phases"`
}
