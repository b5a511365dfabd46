package assess

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillsense/internal/assessment"
	"github.com/abhisek/skillsense/internal/gap"
	"github.com/abhisek/skillsense/internal/ui/components"
	"github.com/abhisek/skillsense/internal/ui/layout"
	"github.com/abhisek/skillsense/internal/ui/router"
	"github.com/abhisek/skillsense/internal/ui/screen"
	"github.com/abhisek/skillsense/internal/ui/theme"
)

// resultScreen shows the scored outcome.
type resultScreen struct {
	outcome assessment.Outcome
	menu    components.Menu
}

var _ screen.Screen = (*resultScreen)(nil)

func newResultScreen(quiz *assessment.Quiz, answers []int, out assessment.Outcome) *resultScreen {
	return &resultScreen{
		outcome: out,
		menu: components.NewMenu([]components.MenuItem{
			{Label: "Review answers", Action: func() tea.Cmd { return router.Push(newReviewScreen(quiz, answers)) }},
			{Label: "Done", Action: func() tea.Cmd { return tea.Quit }},
		}),
	}
}

func (s *resultScreen) Init() tea.Cmd { return nil }

func (s *resultScreen) Title() string { return "Results" }

func (s *resultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && (kmsg.String() == "q" || kmsg.String() == "esc") {
		return s, tea.Quit
	}
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *resultScreen) View(width, height int) string {
	o := s.outcome
	cw := min(width-8, 56)

	var b strings.Builder
	b.WriteString(theme.Title.Render(o.SkillName + " assessment complete"))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("%d of %d correct", o.Correct, o.Total)))
	b.WriteString("\n\n")

	bar := components.NewProgressBar("Score", o.Score, true, cw)
	bar.Fill = theme.ReadinessColor(int(o.Score * 100))
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("%s  %s  %s\n",
		theme.Body.Render("Measured level"),
		components.LevelDots(o.Level, gap.MaxLevel),
		theme.Muted.Render(fmt.Sprintf("(%d/%d)", o.Level, gap.MaxLevel))))
	b.WriteString(fmt.Sprintf("%s  %s  %s\n",
		theme.Body.Render("Profile level "),
		components.LevelDots(o.ProfileLevel, gap.MaxLevel),
		theme.Muted.Render(fmt.Sprintf("(%d/%d)", o.ProfileLevel, gap.MaxLevel))))
	b.WriteString(theme.Hint.Render(fmt.Sprintf("confidence %.0f%%", o.Confidence*100)))
	b.WriteString("\n\n")
	b.WriteString(s.menu.View())

	return layout.Center(theme.Card.Width(cw+6).Render(b.String()), width, height)
}
