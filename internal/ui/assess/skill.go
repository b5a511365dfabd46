package assess

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillsense/internal/ui/components"
	"github.com/abhisek/skillsense/internal/ui/layout"
	"github.com/abhisek/skillsense/internal/ui/router"
	"github.com/abhisek/skillsense/internal/ui/screen"
	"github.com/abhisek/skillsense/internal/ui/theme"
)

// skillScreen asks which skill to assess.
type skillScreen struct {
	sess   *session
	input  components.TextInput
	errMsg string
}

var _ screen.Screen = (*skillScreen)(nil)
var _ screen.KeyHintProvider = (*skillScreen)(nil)

func newSkillScreen(sess *session) *skillScreen {
	return &skillScreen{sess: sess, input: components.NewTextInput("e.g. Go, SQL, Docker", 40)}
}

func (s *skillScreen) Init() tea.Cmd { return s.input.Init() }

func (s *skillScreen) Title() string { return "New assessment" }

func (s *skillScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Enter", Description: "Start"}}
}

func (s *skillScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		skill := s.input.Value()
		if skill == "" {
			s.errMsg = "Type a skill name first."
			return s, nil
		}
		s.sess.opts.Skill = skill
		return s, router.Replace(newQuizScreen(s.sess, skill))
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *skillScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Which skill do you want to assess?"))
	b.WriteString("\n\n")
	b.WriteString(s.input.View())
	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.ErrorText.Render(s.errMsg))
	}
	return layout.Center(theme.Card.Render(b.String()), width, height)
}
