package coach

import (
	"fmt"
	"strings"

	"github.com/abhisek/skillsense/internal/catalog"
	"github.com/abhisek/skillsense/internal/gap"
)

const critiqueSystemPrompt = `You are an experienced technical recruiter reviewing a resume.

Be specific and actionable. Quote the resume when pointing at a weakness.
Score 0-100 where 70 means "would pass a recruiter screen".
For detected_skills, list concrete technical skills with a 1-5 level estimate
based only on evidence in the resume.`

const interviewSystemPrompt = `You are a hiring manager preparing a mock interview.
Mix technical and behavioral questions, weighted towards the role's must-have skills.`

const evaluationSystemPrompt = `You are an interview coach grading a candidate's answer.
Score 0-10. Be direct about what is missing, then show a stronger answer
in the candidate's own voice.`

const roadmapSystemPrompt = `You are a senior engineering mentor writing a learning plan.
Order phases so prerequisites come first. Be realistic about weekly effort
for someone studying about 10 hours a week.`

const chatSystemPrompt = `You are SkillSense, a concise career coach for software engineers.
Answer in a few short paragraphs or a bulleted list. If asked about
something unrelated to careers or learning, steer back politely.`

func buildCritiqueMessage(text string, role *catalog.Role) string {
	var b strings.Builder
	if role != nil {
		fmt.Fprintf(&b, "Target role: %s\n", role.Title)
		b.WriteString("Role requirements:\n")
		writeRequirements(&b, role.Requirements)
		b.WriteString("\n")
	}
	b.WriteString("Resume:\n")
	b.WriteString(text)
	return b.String()
}

func buildInterviewMessage(role catalog.Role, n int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Role: %s\n", role.Title)
	if role.Description != "" {
		fmt.Fprintf(&b, "About the role: %s\n", role.Description)
	}
	b.WriteString("Requirements:\n")
	writeRequirements(&b, role.Requirements)
	fmt.Fprintf(&b, "\nWrite %d questions.", n)
	return b.String()
}

func buildEvaluationMessage(question, answer string) string {
	return fmt.Sprintf("Question:\n%s\n\nCandidate answer:\n%s", question, answer)
}

func buildRoadmapMessage(res gap.Result, ordered []gap.SkillGap) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Target role: %s\n", res.TargetRole.Title)
	fmt.Fprintf(&b, "Current readiness: %d%%\n", res.OverallReadiness)
	if len(res.StrengthAreas) > 0 {
		fmt.Fprintf(&b, "Strengths: %s\n", strings.Join(res.StrengthAreas, ", "))
	}
	b.WriteString("\nGaps in learning order:\n")
	for _, g := range ordered {
		fmt.Fprintf(&b, "- %s: level %d -> %d (%s priority, ~%.0fh)\n",
			g.SkillName, g.CurrentLevel, g.RequiredLevel, g.Priority, g.EstimatedTimeToClose)
	}
	return b.String()
}

func writeRequirements(b *strings.Builder, reqs []gap.RoleRequirement) {
	for _, r := range reqs {
		fmt.Fprintf(b, "- %s (level %d, %s)\n", r.SkillName, r.RequiredLevel, r.Importance)
	}
}
