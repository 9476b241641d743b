// Package history lists the learner's past answers grouped by day and lesson.
package history

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathpath/internal/learner"
	"github.com/abhisek/mathpath/internal/router"
	"github.com/abhisek/mathpath/internal/screen"
	"github.com/abhisek/mathpath/internal/ui/layout"
	"github.com/abhisek/mathpath/internal/ui/theme"
)

// sitting is the answers given to one lesson on one day.
type sitting struct {
	Day      time.Time
	LessonID string
	Entries  []learner.HistoryEntry
	Correct  int
}

// group folds the history into sittings, newest first.
func group(entries []learner.HistoryEntry) []sitting {
	var out []sitting
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		day := time.Date(e.Timestamp.Year(), e.Timestamp.Month(), e.Timestamp.Day(), 0, 0, 0, 0, e.Timestamp.Location())
		if n := len(out); n > 0 && out[n-1].Day.Equal(day) && out[n-1].LessonID == e.LessonID {
			out[n-1].Entries = append(out[n-1].Entries, e)
			if e.Correct {
				out[n-1].Correct++
			}
			continue
		}
		s := sitting{Day: day, LessonID: e.LessonID, Entries: []learner.HistoryEntry{e}}
		if e.Correct {
			s.Correct = 1
		}
		out = append(out, s)
	}
	return out
}

// HistoryScreen displays past answers.
type HistoryScreen struct {
	env      *screen.Env
	sittings []sitting
	selected int
	expanded map[int]bool
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(env *screen.Env) *HistoryScreen {
	return &HistoryScreen{
		env:      env,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	s.sittings = group(s.env.Engine.Learner().History)
	return nil
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(tea.KeyPressMsg); ok {
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sittings)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if len(s.sittings) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  Nothing here yet. Pick a lesson and start!")
	}

	var b strings.Builder
	b.WriteString("\n")

	// Keep the selection in view.
	maxVisible := max(height-4, 3)
	start := 0
	if s.selected >= maxVisible {
		start = s.selected - maxVisible + 1
	}
	lines := 0

	for i := start; i < len(s.sittings) && lines < maxVisible; i++ {
		st := s.sittings[i]
		total := len(st.Entries)
		accuracy := float64(st.Correct) / float64(total) * 100

		prefix := "  "
		if i == s.selected {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s  %-8s %2d answered  %.0f%% correct",
			prefix, st.Day.Format("Jan 02, 2006"), st.LessonID, total, accuracy)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
		lines++

		if !s.expanded[i] {
			continue
		}
		for _, e := range st.Entries {
			mark := lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
			if !e.Correct {
				mark = lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
			}
			detail := fmt.Sprintf("    %s %s  %-14s", e.Timestamp.Format("15:04"), mark, e.ProblemID)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.TextDim).Render(detail)))
			b.WriteString("\n")
			lines++
		}
	}

	return b.String()
}
