package assess

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillsense/internal/assessment"
	"github.com/abhisek/skillsense/internal/ui/components"
	"github.com/abhisek/skillsense/internal/ui/layout"
	"github.com/abhisek/skillsense/internal/ui/router"
	"github.com/abhisek/skillsense/internal/ui/screen"
	"github.com/abhisek/skillsense/internal/ui/theme"
)

// reviewScreen walks through the questions with the answer key shown.
type reviewScreen struct {
	quiz    *assessment.Quiz
	choices []components.Choice
	current int
}

var _ screen.Screen = (*reviewScreen)(nil)
var _ screen.KeyHintProvider = (*reviewScreen)(nil)

func newReviewScreen(quiz *assessment.Quiz, answers []int) *reviewScreen {
	choices := make([]components.Choice, len(quiz.Questions))
	for i, q := range quiz.Questions {
		c := components.NewChoice(q.Text, q.Options)
		if i < len(answers) {
			c.Chosen = answers[i]
		}
		choices[i] = c.Reveal(q.Correct)
	}
	return &reviewScreen{quiz: quiz, choices: choices}
}

func (s *reviewScreen) Init() tea.Cmd { return nil }

func (s *reviewScreen) Title() string { return "Review" }

func (s *reviewScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Question"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *reviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "left", "h":
		s.current = max(s.current-1, 0)
	case "right", "l", "enter":
		s.current = min(s.current+1, len(s.choices)-1)
	case "esc", "q":
		return s, router.Pop
	}
	return s, nil
}

func (s *reviewScreen) View(width, height int) string {
	if len(s.choices) == 0 {
		return layout.Center(theme.Muted.Render("No questions to review."), width, height)
	}
	cw := min(width-4, 76)
	c := s.choices[s.current]
	q := s.quiz.Questions[s.current]

	var b strings.Builder
	verdict := theme.Incorrect.Render("incorrect")
	switch {
	case c.IsCorrect():
		verdict = theme.Correct.Render("correct")
	case !c.Confirmed():
		verdict = theme.Muted.Render("skipped")
	}
	b.WriteString(fmt.Sprintf("%s  %s\n\n",
		theme.Subtitle.Render(fmt.Sprintf("Question %d of %d", s.current+1, len(s.choices))), verdict))
	b.WriteString(c.View())
	if q.Explanation != "" {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(q.Explanation))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.NewStyle().Width(cw).Render(b.String()))
}
