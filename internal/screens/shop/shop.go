// Package shop is where points are spent on avatars, accessories and
// themes, and where owned items are equipped.
package shop

import (
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathpath/internal/learner"
	"github.com/abhisek/mathpath/internal/router"
	"github.com/abhisek/mathpath/internal/screen"
	"github.com/abhisek/mathpath/internal/ui/layout"
	"github.com/abhisek/mathpath/internal/ui/theme"
)

// ShopScreen lists the catalog one item kind at a time.
type ShopScreen struct {
	env          *screen.Env
	selectedKind int // index into learner.AllItemKinds
	cursor       int
	notice       string
	failed       bool
}

var _ screen.Screen = (*ShopScreen)(nil)
var _ screen.KeyHintProvider = (*ShopScreen)(nil)

// New creates a new ShopScreen.
func New(env *screen.Env) *ShopScreen {
	return &ShopScreen{env: env}
}

func (s *ShopScreen) Init() tea.Cmd {
	return nil
}

func (s *ShopScreen) Title() string {
	return "Shop"
}

func (s *ShopScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Switch kind"},
		{Key: "↑↓", Description: "Select"},
		{Key: "Enter", Description: "Buy / Equip"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ShopScreen) kind() learner.ItemKind {
	return learner.AllItemKinds()[s.selectedKind]
}

func (s *ShopScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	kinds := learner.AllItemKinds()
	switch kmsg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "tab", "right", "l":
		s.selectedKind = (s.selectedKind + 1) % len(kinds)
		s.cursor = 0
	case "shift+tab", "left", "h":
		s.selectedKind = (s.selectedKind - 1 + len(kinds)) % len(kinds)
		s.cursor = 0
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(learner.ShopItems(s.kind()))-1 {
			s.cursor++
		}
	case "enter":
		items := learner.ShopItems(s.kind())
		if s.cursor < len(items) {
			s.activate(items[s.cursor])
		}
	}
	return s, nil
}

// activate buys the item when it is not owned yet, otherwise equips it.
func (s *ShopScreen) activate(it learner.Item) {
	bought := false
	err := s.env.Engine.Update(s.env.Context(), func(st *learner.State) error {
		if !st.Owns(it.ID) {
			if err := st.Unlock(it.ID); err != nil {
				return err
			}
			bought = true
		}
		return st.Equip(it.ID)
	})

	s.failed = err != nil
	switch {
	case errors.Is(err, learner.ErrInsufficientPoints):
		s.notice = fmt.Sprintf("You need %d points for %s.", it.Cost, it.Name)
	case err != nil:
		s.notice = err.Error()
	case bought:
		s.notice = fmt.Sprintf("Unlocked %s!", it.Name)
	default:
		s.notice = fmt.Sprintf("Equipped %s.", it.Name)
	}
	if err == nil && it.Kind == learner.KindTheme {
		theme.Apply(it.Value)
	}
}

func (s *ShopScreen) View(width, height int) string {
	st := s.env.Engine.Learner()
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.ArcadeYellow).Bold(true).
		Render(fmt.Sprintf("\n◆ %d points\n", st.Points)))
	b.WriteString("\n")

	var tabs []string
	for i, k := range learner.AllItemKinds() {
		label := fmt.Sprintf("%s (%d)", k.DisplayName(), ownedCount(st, k))
		if i == s.selectedKind {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(label))
		} else {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(theme.TextDim).Render(label))
		}
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(tabs, "     ")))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	for i, it := range learner.ShopItems(s.kind()) {
		var status string
		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case st.IsEquipped(it):
			status = "equipped"
			style = style.Foreground(theme.Success)
		case st.Owns(it.ID):
			status = "owned"
		case st.Points < it.Cost:
			status = fmt.Sprintf("◆ %d", it.Cost)
			style = style.Foreground(theme.TextDim)
		default:
			status = fmt.Sprintf("◆ %d", it.Cost)
		}

		prefix := "  "
		if i == s.cursor {
			prefix = "▸ "
			style = style.Bold(true)
		}
		line := fmt.Sprintf("%s%s %-16s %-18s %s", prefix, icon(it), it.Name, it.Description, status)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	if s.notice != "" {
		color := theme.Success
		if s.failed {
			color = theme.Error
		}
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(color).Render(s.notice))
	}
	return b.String()
}

func icon(it learner.Item) string {
	if it.Kind == learner.KindTheme {
		return "🎨"
	}
	return it.Value
}

func ownedCount(st *learner.State, k learner.ItemKind) int {
	n := 0
	for _, it := range learner.ShopItems(k) {
		if st.Owns(it.ID) {
			n++
		}
	}
	return n
}
