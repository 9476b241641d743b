package welcome

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathpath/internal/content"
	"github.com/abhisek/mathpath/internal/router"
	"github.com/abhisek/mathpath/internal/screen"
	"github.com/abhisek/mathpath/internal/ui/components"
	"github.com/abhisek/mathpath/internal/ui/layout"
	"github.com/abhisek/mathpath/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	phase2End    = 1500 * time.Millisecond
	totalDur     = 4500 * time.Millisecond
)

const mascotArt = `  ╭───────────╮
  │  ┌─────┐  │
  │  │ ◉ ◉ │  │
  │  │  ▽  │  │
  │  ├─────┤  │
  │  │ y=mx│  │
  │  └─────┘  │
  ╰───────────╯`

// sparkle frames cycle around the mascot
var sparkleFrames = []string{"★", "✦"}

type tickMsg time.Time

// Register creates a learner and returns the screen to show next.
type Register func(name string, lang content.Language) (screen.Screen, error)

type field int

const (
	fieldName field = iota
	fieldLanguage
)

// WelcomeScreen shows a splash animation. Returning learners continue to
// the next screen on any key; new learners first enter a name and pick a
// language.
type WelcomeScreen struct {
	next     func() screen.Screen
	register Register

	elapsed      time.Duration
	tickCount    int
	transitioned bool

	form      bool
	name      components.TextInput
	languages []content.Language
	langIdx   int
	focus     field
	errMsg    string
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.KeyHintProvider = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by next.
func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

// NewRegistration creates a WelcomeScreen that asks for the learner's name
// and language before calling register. lang is preselected.
func NewRegistration(lang content.Language, register Register) *WelcomeScreen {
	w := &WelcomeScreen{
		register:  register,
		name:      components.NewTextInput("Your name", false, 40),
		languages: content.Languages(),
	}
	for i, l := range w.languages {
		if l == lang {
			w.langIdx = i
		}
	}
	return w
}

func (w *WelcomeScreen) Title() string {
	if w.form {
		return "Welcome"
	}
	return ""
}

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	if !w.form {
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "←→", Description: "Language"},
		{Key: "Enter", Description: "Start"},
	}
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		if w.form {
			return w, nil
		}
		return w, tea.Tick(tickInterval, func(t time.Time) tea.Msg {
			return tickMsg(t)
		})

	case tea.KeyPressMsg:
		if w.form {
			return w.updateForm(msg)
		}
		if w.register != nil {
			w.form = true
			return w, w.name.Init()
		}
		return w, w.transition()
	}

	if w.form {
		var cmd tea.Cmd
		w.name, cmd = w.name.Update(msg)
		return w, cmd
	}
	return w, nil
}

func (w *WelcomeScreen) updateForm(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "down", "up":
		if w.focus == fieldName {
			w.focus = fieldLanguage
			w.name.Blur()
			return w, nil
		}
		w.focus = fieldName
		return w, w.name.Focus()
	case "enter":
		return w, w.submit()
	}

	if w.focus == fieldLanguage {
		switch msg.String() {
		case "left", "h":
			w.langIdx = (w.langIdx - 1 + len(w.languages)) % len(w.languages)
		case "right", "l", "space":
			w.langIdx = (w.langIdx + 1) % len(w.languages)
		}
		return w, nil
	}

	var cmd tea.Cmd
	w.name, cmd = w.name.Update(msg)
	w.errMsg = ""
	return w, cmd
}

func (w *WelcomeScreen) submit() tea.Cmd {
	if w.transitioned {
		return nil
	}
	name := w.name.Value()
	if name == "" {
		w.errMsg = "Please type your name."
		return nil
	}
	next, err := w.register(name, w.languages[w.langIdx])
	if err != nil {
		w.errMsg = err.Error()
		return nil
	}
	w.transitioned = true
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	if w.form {
		return w.viewForm(width, height)
	}

	var sections []string

	rendered := lipgloss.NewStyle().Foreground(theme.Primary).Render(mascotArt)

	// Phase 2+: sparkles around mascot
	if w.elapsed >= phase1End {
		sparkle := sparkleFrames[w.tickCount%len(sparkleFrames)]
		s1 := lipgloss.NewStyle().Foreground(theme.Accent).Render(sparkle)
		s2 := lipgloss.NewStyle().Foreground(theme.Secondary).Render(sparkle)

		lines := strings.Split(rendered, "\n")
		for i := 0; i < len(lines); i += 3 {
			if (i/3)%2 == 0 {
				lines[i] = s1 + "  " + lines[i] + "  " + s2
			} else {
				lines[i] = s2 + "  " + lines[i] + "  " + s1
			}
		}
		rendered = strings.Join(lines, "\n")
	}
	sections = append(sections, rendered)

	// Phase 3+: banner, tagline and hint
	if w.elapsed >= phase2End {
		sections = append(sections,
			"",
			RenderBanner(width),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("One line at a time: y = mx + c"),
			"",
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("press any key to continue"),
		)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}

func (w *WelcomeScreen) viewForm(width, height int) string {
	label := func(s string, focused bool) string {
		st := lipgloss.NewStyle().Foreground(theme.TextDim)
		if focused {
			st = theme.Selected
		}
		return st.Render(s)
	}

	var langs []string
	for i, l := range w.languages {
		st := lipgloss.NewStyle().Foreground(theme.TextDim)
		if i == w.langIdx {
			st = lipgloss.NewStyle().Foreground(theme.BgDark).Background(theme.ArcadeYellow).Bold(true)
		}
		langs = append(langs, st.Render(fmt.Sprintf(" %s ", l.Name())))
	}

	sections := []string{
		RenderBanner(width),
		"",
		theme.Title.Render("Who is learning today?"),
		"",
		label("Name", w.focus == fieldName),
		w.name.View(),
		"",
		label("Language", w.focus == fieldLanguage),
		strings.Join(langs, " "),
	}
	if w.errMsg != "" {
		sections = append(sections, "", lipgloss.NewStyle().Foreground(theme.Error).Render(w.errMsg))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
