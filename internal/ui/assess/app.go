// Package assess is the terminal UI for taking a skill assessment.
package assess

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillsense/internal/assessment"
	"github.com/abhisek/skillsense/internal/ui/layout"
	"github.com/abhisek/skillsense/internal/ui/router"
	"github.com/abhisek/skillsense/internal/ui/screen"
)

// Assessor generates and scores quizzes. *assessment.Service implements it.
type Assessor interface {
	Start(ctx context.Context, userID, skill string, count int) (*assessment.Quiz, error)
	Complete(ctx context.Context, userID string, quiz *assessment.Quiz, answers []int) (assessment.Outcome, error)
}

// Options configures a TUI run.
type Options struct {
	UserID string

	// Skill is asked for interactively when empty.
	Skill string
	Count int
}

type session struct {
	ctx      context.Context
	assessor Assessor
	opts     Options

	// outcome is set once a quiz has been scored.
	outcome *assessment.Outcome
}

// Model is the root Bubble Tea model.
type Model struct {
	sess   *session
	router *router.Router
	width  int
	height int
}

// New creates the root model, starting at skill entry or directly at the
// quiz when a skill is given.
func New(ctx context.Context, a Assessor, opts Options) Model {
	sess := &session{ctx: ctx, assessor: a, opts: opts}

	var first screen.Screen
	if opts.Skill == "" {
		first = newSkillScreen(sess)
	} else {
		first = newQuizScreen(sess, opts.Skill)
	}
	return Model{sess: sess, router: router.New(first)}
}

func (m Model) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	return m, m.router.Update(msg)
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	status := ""
	if m.sess.opts.Skill != "" {
		status = m.sess.opts.Skill + " "
	}
	header := layout.RenderHeader(active.Title(), status, m.width)

	hints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if p, ok := active.(screen.KeyHintProvider); ok {
		hints = append(p.KeyHints(), hints...)
	}
	footer := layout.RenderFooter(hints, m.width)

	content := m.router.View(m.width, layout.ContentHeight(header, footer, m.height))
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Outcome returns the scored result, if the user finished a quiz.
func (m Model) Outcome() (assessment.Outcome, bool) {
	if m.sess.outcome == nil {
		return assessment.Outcome{}, false
	}
	return *m.sess.outcome, true
}

// Run starts the program and returns the outcome once it exits.
func Run(ctx context.Context, a Assessor, opts Options) (assessment.Outcome, bool, error) {
	final, err := tea.NewProgram(New(ctx, a, opts), tea.WithContext(ctx)).Run()
	if err != nil {
		return assessment.Outcome{}, false, err
	}
	out, ok := final.(Model).Outcome()
	return out, ok, nil
}
