// Package home is the lesson map: the learner's stats, every lesson with
// its lock state, and the shop and history entries.
package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathpath/internal/content"
	"github.com/abhisek/mathpath/internal/learner"
	"github.com/abhisek/mathpath/internal/router"
	"github.com/abhisek/mathpath/internal/screen"
	"github.com/abhisek/mathpath/internal/screens/history"
	"github.com/abhisek/mathpath/internal/screens/lesson"
	"github.com/abhisek/mathpath/internal/screens/shop"
	"github.com/abhisek/mathpath/internal/ui/components"
	"github.com/abhisek/mathpath/internal/ui/layout"
)

// statsView is what the stats bar shows.
type statsView struct {
	points int
	streak int
	path   content.Difficulty
	placed bool
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	env  *screen.Env
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(env *screen.Env) *HomeScreen {
	h := &HomeScreen{env: env}
	h.refresh()
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Lesson Map"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	h.refresh()
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

// refresh rebuilds the menu from the learner's current progress.
func (h *HomeScreen) refresh() {
	st := h.env.Engine.Learner()
	h.menu.SetItems(h.items(st))
}

// lessonStatus is the lock/done marker shown before a lesson title.
func lessonStatus(l content.Lesson, st *learner.State, canGenerate bool) (icon string, locked bool) {
	switch {
	case st.HasCompleted(l.ID):
		return "✓", false
	case !content.Unlocked(l.ID, st.CompletedLessons):
		return "🔒", true
	case l.Kind == content.KindMaster && !canGenerate:
		return "⚠", true
	case st.CurrentLessonID == l.ID:
		return "▶", false
	}
	return "○", false
}

func (h *HomeScreen) items(st *learner.State) []components.MenuItem {
	var items []components.MenuItem
	for _, l := range content.Lessons() {
		icon, locked := lessonStatus(l, st, h.env.Engine.CanGenerate())
		id := l.ID
		items = append(items, components.MenuItem{
			Label:    fmt.Sprintf("%s %s", icon, l.Title.Get(st.Language)),
			Detail:   l.Description.Get(st.Language),
			Disabled: locked,
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: lesson.New(h.env, id)}
				}
			},
		})
	}
	items = append(items,
		components.MenuItem{Label: "SHOP", Action: func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: shop.New(h.env)} }
		}},
		components.MenuItem{Label: "HISTORY", Action: func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: history.New(h.env)} }
		}},
		components.MenuItem{Label: "EXIT", Action: func() tea.Cmd {
			h.env.Engine.Flush()
			return tea.Quit
		}},
	)
	return items
}

func (h *HomeScreen) View(width, height int) string {
	h.refresh()
	st := h.env.Engine.Learner()

	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 40 || width < 100
	cw := components.PanelWidth(width)

	placed := st.HasCompleted(content.DiagnosticLessonID)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, centered(RenderMascot(pickMascot(placed, st.Streak)), cw))
	}
	sections = append(sections, renderStatsBar(statsView{
		points: st.Points,
		streak: st.Streak,
		path:   st.Path,
		placed: placed,
	}, cw, compact))

	if !h.env.Engine.CanGenerate() {
		sections = append(sections, renderLLMBanner(cw))
	}

	lines := make([]menuLine, len(h.menu.Items))
	for i, it := range h.menu.Items {
		lines[i] = menuLine{label: it.Label, disabled: it.Disabled}
	}
	sections = append(sections, renderMenu(lines, h.menu.Selected, cw, compact))
	if sel := h.menu.Selected; sel >= 0 && sel < len(h.menu.Items) && h.menu.Items[sel].Detail != "" {
		sections = append(sections, renderDetail(h.menu.Items[sel].Detail, cw))
	}

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}
