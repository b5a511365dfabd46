package assess

import "github.com/abhisek/skillsense/internal/assessment"

// quizReadyMsg is sent when question generation finishes.
type quizReadyMsg struct {
	Quiz *assessment.Quiz
	Err  error
}

// outcomeMsg is sent when the submission has been scored and merged into
// the profile.
type outcomeMsg struct {
	Outcome assessment.Outcome
	Err     error
}
