package assessment

import (
	"fmt"
	"strings"
)

const systemPrompt = `You write skill assessments for software professionals.

Rules:
- Every question has exactly 4 options and exactly one correct option.
- Spread difficulty from 1 (beginner) to 5 (expert) across the set.
- Test practical understanding, not trivia or exact API spellings.
- Options must be distinct and plausible; avoid "all of the above".
- Keep each question under 300 characters.`

func buildUserMessage(skillName string, count int, avoid []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Skill: %s\n", skillName)
	fmt.Fprintf(&b, "Number of questions: %d\n", count)
	if len(avoid) > 0 {
		b.WriteString("\nDo not repeat these questions:\n")
		for _, q := range avoid {
			fmt.Fprintf(&b, "- %s\n", q)
		}
	}
	return b.String()
}
