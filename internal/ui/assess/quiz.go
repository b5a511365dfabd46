package assess

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillsense/internal/assessment"
	"github.com/abhisek/skillsense/internal/ui/components"
	"github.com/abhisek/skillsense/internal/ui/layout"
	"github.com/abhisek/skillsense/internal/ui/router"
	"github.com/abhisek/skillsense/internal/ui/screen"
	"github.com/abhisek/skillsense/internal/ui/theme"
)

type quizPhase int

const (
	phaseGenerating quizPhase = iota
	phaseAnswering
	phaseSubmitting
	phaseFailed
)

// quizScreen generates the quiz, collects one answer per question and
// submits them.
type quizScreen struct {
	sess  *session
	skill string
	phase quizPhase
	spin  spinner.Model

	quiz    *assessment.Quiz
	choices []components.Choice
	current int
	err     error
}

var _ screen.Screen = (*quizScreen)(nil)
var _ screen.KeyHintProvider = (*quizScreen)(nil)

func newQuizScreen(sess *session, skill string) *quizScreen {
	return &quizScreen{
		sess:  sess,
		skill: skill,
		spin: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary)),
		),
	}
}

func (s *quizScreen) Init() tea.Cmd {
	return tea.Batch(s.spin.Tick, s.generate())
}

func (s *quizScreen) Title() string { return "Assessment" }

func (s *quizScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseAnswering:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Move"},
			{Key: "Enter/A-D", Description: "Answer"},
			{Key: "S", Description: "Skip"},
			{Key: "←", Description: "Previous"},
		}
	case phaseFailed:
		return []layout.KeyHint{{Key: "R", Description: "Retry"}, {Key: "Q", Description: "Quit"}}
	}
	return nil
}

func (s *quizScreen) generate() tea.Cmd {
	sess, skill := s.sess, s.skill
	return func() tea.Msg {
		quiz, err := sess.assessor.Start(sess.ctx, sess.opts.UserID, skill, sess.opts.Count)
		return quizReadyMsg{Quiz: quiz, Err: err}
	}
}

func (s *quizScreen) submit() tea.Cmd {
	sess, quiz, answers := s.sess, s.quiz, s.answers()
	return func() tea.Msg {
		out, err := sess.assessor.Complete(sess.ctx, sess.opts.UserID, quiz, answers)
		return outcomeMsg{Outcome: out, Err: err}
	}
}

func (s *quizScreen) answers() []int {
	out := make([]int, len(s.choices))
	for i, c := range s.choices {
		out[i] = c.Chosen
		if !c.Confirmed() {
			out[i] = assessment.Unanswered
		}
	}
	return out
}

func (s *quizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if s.phase != phaseGenerating && s.phase != phaseSubmitting {
			return s, nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd

	case quizReadyMsg:
		if msg.Err != nil {
			s.phase, s.err = phaseFailed, msg.Err
			return s, nil
		}
		s.quiz = msg.Quiz
		s.choices = make([]components.Choice, len(msg.Quiz.Questions))
		for i, q := range msg.Quiz.Questions {
			s.choices[i] = components.NewChoice(q.Text, q.Options)
		}
		s.current = 0
		s.phase = phaseAnswering
		return s, nil

	case outcomeMsg:
		if msg.Err != nil {
			s.phase, s.err = phaseFailed, msg.Err
			return s, nil
		}
		out := msg.Outcome
		s.sess.outcome = &out
		return s, router.Replace(newResultScreen(s.quiz, s.answers(), out))

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *quizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	switch s.phase {
	case phaseFailed:
		switch key {
		case "r":
			s.err = nil
			if s.quiz != nil {
				s.phase = phaseSubmitting
				return s, tea.Batch(s.spin.Tick, s.submit())
			}
			s.phase = phaseGenerating
			return s, tea.Batch(s.spin.Tick, s.generate())
		case "q", "esc":
			return s, tea.Quit
		}
		return s, nil

	case phaseAnswering:
		switch key {
		case "left", "backspace":
			if s.current > 0 {
				s.current--
				s.reopen(s.current)
			}
			return s, nil
		case "s":
			return s.advance()
		}

		var cmd tea.Cmd
		s.choices[s.current], cmd = s.choices[s.current].Update(msg)
		if s.choices[s.current].Confirmed() {
			return s.advance()
		}
		return s, cmd
	}
	return s, nil
}

// advance moves to the next question, submitting after the last one.
func (s *quizScreen) advance() (screen.Screen, tea.Cmd) {
	if s.current < len(s.choices)-1 {
		s.current++
		s.reopen(s.current)
		return s, nil
	}
	s.phase = phaseSubmitting
	return s, tea.Batch(s.spin.Tick, s.submit())
}

// reopen makes an answered question editable again, keeping the cursor on
// the previous answer.
func (s *quizScreen) reopen(i int) {
	prev := s.choices[i]
	if !prev.Confirmed() {
		return
	}
	c := components.NewChoice(prev.Question, prev.Options)
	c.Selected = prev.Chosen
	s.choices[i] = c
}

func (s *quizScreen) View(width, height int) string {
	switch s.phase {
	case phaseGenerating:
		return layout.Center(s.spin.View()+" Writing "+s.skill+" questions...", width, height)
	case phaseSubmitting:
		return layout.Center(s.spin.View()+" Scoring your answers...", width, height)
	case phaseFailed:
		return layout.Center(
			theme.ErrorText.Render("Something went wrong")+"\n\n"+
				theme.Muted.Render(s.err.Error()),
			width, height)
	}

	cw := min(width-4, 76)
	var b strings.Builder
	progress := components.NewProgressBar(
		fmt.Sprintf("Question %d of %d", s.current+1, len(s.choices)),
		float64(s.current)/float64(len(s.choices)), false, cw)
	b.WriteString(progress.View())
	b.WriteString("\n\n")

	q := s.quiz.Questions[s.current]
	b.WriteString(theme.Hint.Render(fmt.Sprintf("Difficulty %d/5", q.Difficulty)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(cw).Render(s.choices[s.current].View()))

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}
