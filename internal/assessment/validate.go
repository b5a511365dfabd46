package assessment

import "strings"

// validateQuestions checks what the schema cannot express: distinct
// options and a non-empty stem.
func validateQuestions(qs []Question) error {
	for i, q := range qs {
		if strings.TrimSpace(q.Text) == "" {
			return &ValidationError{Index: i, Message: "empty question text"}
		}
		if len(q.Options) != OptionsPerQuestion {
			return &ValidationError{Index: i, Message: "must have exactly 4 options"}
		}
		seen := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			key := strings.ToLower(strings.TrimSpace(o))
			if key == "" {
				return &ValidationError{Index: i, Message: "empty option"}
			}
			if seen[key] {
				return &ValidationError{Index: i, Message: "duplicate option " + o}
			}
			seen[key] = true
		}
		if q.Correct < 0 || q.Correct >= len(q.Options) {
			return &ValidationError{Index: i, Message: "correct index out of range"}
		}
		if q.Difficulty < 1 || q.Difficulty > 5 {
			return &ValidationError{Index: i, Message: "difficulty must be between 1 and 5"}
		}
	}
	return nil
}
