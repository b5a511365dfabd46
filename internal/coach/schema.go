package coach

import "github.com/abhisek/skillsense/internal/llm"

var stringList = map[string]any{
	"type":  "array",
	"items": map[string]any{"type": "string"},
}

// CritiqueSchema defines the JSON schema for resume critique.
var CritiqueSchema = &llm.Schema{
	Name:        "resume-critique",
	Description: "A structured critique of a resume",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"maximum":     100,
				"description": "Overall resume quality",
			},
			"summary":     map[string]any{"type": "string"},
			"strengths":   stringList,
			"weaknesses":  stringList,
			"suggestions": stringList,
			"detected_skills": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":  map[string]any{"type": "string"},
						"level": map[string]any{"type": "integer", "minimum": 1, "maximum": 5},
					},
					"required":             []any{"name", "level"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"score", "summary", "strengths", "weaknesses", "suggestions", "detected_skills"},
		"additionalProperties": false,
	},
}

// InterviewSchema defines the JSON schema for interview question generation.
var InterviewSchema = &llm.Schema{
	Name:        "interview-questions",
	Description: "Mock interview questions for a job role",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{"type": "string"},
						"topic":    map[string]any{"type": "string"},
						"kind":     map[string]any{"type": "string", "enum": []any{"technical", "behavioral"}},
					},
					"required":             []any{"question", "topic", "kind"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// EvaluationSchema defines the JSON schema for answer evaluation.
var EvaluationSchema = &llm.Schema{
	Name:        "interview-evaluation",
	Description: "A graded interview answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score":           map[string]any{"type": "integer", "minimum": 0, "maximum": 10},
			"feedback":        map[string]any{"type": "string"},
			"strengths":       stringList,
			"improvements":    stringList,
			"improved_answer": map[string]any{"type": "string"},
		},
		"required":             []any{"score", "feedback", "strengths", "improvements", "improved_answer"},
		"additionalProperties": false,
	},
}

// RoadmapSchema defines the JSON schema for learning roadmaps.
var RoadmapSchema = &llm.Schema{
	Name:        "learning-roadmap",
	Description: "An ordered, phased learning plan",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{"type": "string"},
			"phases": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title":      map[string]any{"type": "string"},
						"skills":     stringList,
						"weeks":      map[string]any{"type": "integer", "minimum": 1},
						"milestones": stringList,
					},
					"required":             []any{"title", "skills", "weeks", "milestones"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"summary", "phases"},
		"additionalProperties": false,
	},
}
