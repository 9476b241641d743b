// Package app is the root Bubble Tea model: it owns the screen router, the
// header and footer, and creates the session engine for the learner.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathpath/internal/content"
	"github.com/abhisek/mathpath/internal/diagnosis"
	"github.com/abhisek/mathpath/internal/learner"
	"github.com/abhisek/mathpath/internal/logging"
	"github.com/abhisek/mathpath/internal/problemgen"
	"github.com/abhisek/mathpath/internal/router"
	"github.com/abhisek/mathpath/internal/screen"
	"github.com/abhisek/mathpath/internal/screens/home"
	"github.com/abhisek/mathpath/internal/screens/welcome"
	"github.com/abhisek/mathpath/internal/session"
	"github.com/abhisek/mathpath/internal/tutor"
	"github.com/abhisek/mathpath/internal/ui/layout"
	"github.com/abhisek/mathpath/internal/ui/theme"
)

// Store is the persistence the UI needs. store.Hybrid satisfies it.
type Store interface {
	Latest(ctx context.Context) (*learner.State, error)
	Save(ctx context.Context, st *learner.State) error
	ListCustomProblems(ctx context.Context) ([]*content.Problem, error)
}

// Options wires the UI. Generator, Diagnosis and Tutor are optional.
type Options struct {
	Store           Store
	Language        content.Language // preselected on the registration form
	Generator       problemgen.Generator
	Diagnosis       *diagnosis.Service
	Tutor           *tutor.Service
	IllustrationDir string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	ctx    context.Context
	opts   Options
	env    *screen.Env // nil until a learner exists
	width  int
	height int
}

// newAppModel resumes the most recent learner, or asks for a name when
// there is none.
func newAppModel(ctx context.Context, opts Options) (*AppModel, error) {
	m := &AppModel{ctx: ctx, opts: opts}

	st, err := opts.Store.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("load learner: %w", err)
	}
	if st != nil {
		m.bind(st)
		homeScreen := home.New(m.env)
		m.router = router.New(welcome.New(func() screen.Screen { return homeScreen }))
		return m, nil
	}

	lang := opts.Language
	if lang == "" {
		lang = content.DefaultLanguage
	}
	m.router = router.New(welcome.NewRegistration(lang, m.register))
	return m, nil
}

// bind creates the engine and screen environment for st.
func (m *AppModel) bind(st *learner.State) {
	eng := session.New(st, session.Options{
		Custom:    m.opts.Store,
		Generator: m.opts.Generator,
		Diagnosis: m.opts.Diagnosis,
		Saver:     m.opts.Store,
	})
	m.env = screen.NewEnv(m.ctx, screen.Env{
		Engine:          eng,
		Tutor:           m.opts.Tutor,
		Generator:       m.opts.Generator,
		IllustrationDir: m.opts.IllustrationDir,
	})
	theme.Apply(eng.Learner().Equipped.Theme)
}

func (m *AppModel) register(name string, lang content.Language) (screen.Screen, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("name is required")
	}
	st := learner.New(name, lang)
	if err := m.opts.Store.Save(m.ctx, st); err != nil {
		return nil, fmt.Errorf("save learner: %w", err)
	}
	logger := logging.FromContext(m.ctx)
	logger.Info().Str("user_id", st.UserID).Str("language", string(lang)).Msg("learner registered")
	m.bind(st)
	return home.New(m.env), nil
}

func (m *AppModel) Init() tea.Cmd {
	return m.router.Init()
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			m.shutdown()
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	if m.env != nil {
		// the shop may have changed the equipped theme
		theme.Apply(m.env.Engine.Learner().Equipped.Theme)
	}
	return m, cmd
}

// shutdown drops an unfinished attempt and waits for pending saves.
func (m *AppModel) shutdown() {
	if m.env != nil {
		m.env.Engine.Close()
	}
}

func (m *AppModel) headerStats() layout.HeaderStats {
	if m.env == nil {
		return layout.HeaderStats{}
	}
	st := m.env.Engine.Learner()
	avatar := st.Equipped.Avatar
	if st.Equipped.Accessory != "" {
		avatar += st.Equipped.Accessory
	}
	return layout.HeaderStats{Avatar: avatar, Points: st.Points, Streak: st.Streak}
}

func (m *AppModel) View() tea.View {
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
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.headerStats(), m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	}
	if len(footerHints) == 0 {
		footerHints = []layout.KeyHint{
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program and blocks until it exits. Any open
// attempt is closed and pending learner saves are flushed before returning.
func Run(ctx context.Context, opts Options) error {
	if opts.Store == nil {
		return errors.New("app: store is required")
	}
	m, err := newAppModel(ctx, opts)
	if err != nil {
		return err
	}
	defer m.shutdown()

	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
