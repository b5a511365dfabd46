package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillsense/internal/ui/theme"
)

// NoAnswer is the Chosen value before a choice is confirmed.
const NoAnswer = -1

// Choice is a multiple-choice selector. The answer key is unknown while
// the quiz runs; Reveal shows it afterwards for review.
type Choice struct {
	Question string
	Options  []string
	Selected int
	Chosen   int

	correct  int
	revealed bool
}

// NewChoice creates a selector with nothing chosen.
func NewChoice(question string, options []string) Choice {
	return Choice{Question: question, Options: options, Chosen: NoAnswer, correct: NoAnswer}
}

// Reveal marks the correct option and freezes the selector.
func (c Choice) Reveal(correct int) Choice {
	c.correct = correct
	c.revealed = true
	return c
}

// Confirmed reports whether an option has been chosen.
func (c Choice) Confirmed() bool {
	return c.Chosen != NoAnswer
}

// Update handles arrow navigation, letter shortcuts and enter.
func (c Choice) Update(msg tea.Msg) (Choice, tea.Cmd) {
	if c.revealed || c.Confirmed() {
		return c, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
	case "down", "j":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
	case "enter":
		c.Chosen = c.Selected
	default:
		if len(key) == 1 {
			if i := int(strings.ToLower(key)[0] - 'a'); i >= 0 && i < len(c.Options) {
				c.Selected = i
				c.Chosen = i
			}
		}
	}
	return c, nil
}

// View renders the question and its options.
func (c Choice) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(c.Question))
	b.WriteString("\n\n")

	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Selected && !c.revealed {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%c)  %s", prefix, 'A'+i, opt)

		style := theme.Unselected
		switch {
		case c.revealed && i == c.correct:
			style = theme.Correct
		case c.revealed && i == c.Chosen:
			style = theme.Incorrect
		case c.revealed:
			style = theme.Muted
		case i == c.Selected:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// IsCorrect reports whether a revealed choice was answered correctly.
func (c Choice) IsCorrect() bool {
	return c.revealed && c.Chosen == c.correct
}
