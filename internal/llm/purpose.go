package llm

import "context"

// Purpose names the feature a gateway call serves. It is stored on every
// LLM request event and used as the cache and metrics label.
type Purpose string

const (
	PurposeAssessment          Purpose = "assessment-questions"
	PurposeResumeCritique      Purpose = "resume-critique"
	PurposeInterviewQuestions  Purpose = "interview-questions"
	PurposeInterviewEvaluation Purpose = "interview-evaluation"
	PurposeRoadmap             Purpose = "roadmap"
	PurposeChat                Purpose = "chat"

	PurposeUnlabeled Purpose = "unknown"
)

// Purposes lists the labels SkillSense features attach, in display order.
var Purposes = []Purpose{
	PurposeAssessment,
	PurposeResumeCritique,
	PurposeInterviewQuestions,
	PurposeInterviewEvaluation,
	PurposeRoadmap,
	PurposeChat,
}

type purposeKey struct{}

// WithPurpose labels every gateway call made with the returned context.
func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey{}, p)
}

// PurposeFrom returns the label set by WithPurpose, or PurposeUnlabeled.
func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey{}).(Purpose); ok && p != "" {
		return p
	}
	return PurposeUnlabeled
}
