// Package summary shows the result of a finished attempt and offers another
// round of practice.
package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathpath/internal/content"
	"github.com/abhisek/mathpath/internal/logging"
	"github.com/abhisek/mathpath/internal/router"
	"github.com/abhisek/mathpath/internal/screen"
	"github.com/abhisek/mathpath/internal/session"
	"github.com/abhisek/mathpath/internal/ui/components"
	"github.com/abhisek/mathpath/internal/ui/layout"
	"github.com/abhisek/mathpath/internal/ui/theme"
)

// SummaryScreen displays the attempt summary.
type SummaryScreen struct {
	env     *screen.Env
	summary *session.Summary
	placed  content.Difficulty
	resume  func() screen.Screen

	buttons  []components.Button
	selected int
	errMsg   string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen. placed is the path chosen by a finished
// diagnostic. resume builds the lesson screen for another round; when nil
// the screen only leads back to the map.
func New(env *screen.Env, summary *session.Summary, placed content.Difficulty, resume func() screen.Screen) *SummaryScreen {
	s := &SummaryScreen{env: env, summary: summary, placed: placed, resume: resume}
	if resume != nil {
		s.buttons = append(s.buttons, components.NewButton("Practice again", true, s.practiceAgain))
	}
	s.buttons = append(s.buttons, components.NewButton("Back to map", resume == nil, s.backToMap))
	return s
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	if s.summary != nil && s.summary.Diagnostic {
		return "Placement"
	}
	return "Lesson Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Enter", Description: "Select"}}
	if len(s.buttons) > 1 {
		hints = append(hints, layout.KeyHint{Key: "↑↓", Description: "Choose"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Map"})
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "esc":
		return s, s.backToMap()
	case "up", "k", "shift+tab":
		s.move(-1)
		return s, nil
	case "down", "j", "tab":
		s.move(1)
		return s, nil
	}
	var cmd tea.Cmd
	s.buttons[s.selected], cmd = s.buttons[s.selected].Update(msg)
	return s, cmd
}

func (s *SummaryScreen) move(d int) {
	n := len(s.buttons)
	s.buttons[s.selected].Active = false
	s.selected = ((s.selected+d)%n + n) % n
	s.buttons[s.selected].Active = true
}

func (s *SummaryScreen) practiceAgain() tea.Cmd {
	if err := s.env.Engine.ContinuePractice(s.env.Context()); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	next := s.resume()
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *SummaryScreen) backToMap() tea.Cmd {
	env := s.env
	return func() tea.Msg {
		if env.Engine.Phase() != session.PhaseIdle {
			if _, err := env.Engine.Exit(env.Context()); err != nil {
				logger := logging.FromContext(env.Context())
				logger.Warn().Err(err).Msg("leaving summary")
			}
		}
		return router.PopToRootMsg{}
	}
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder

	title := "Lesson complete!"
	if sum.Diagnostic {
		title = "Diagnostic complete!"
	}
	b.WriteString(center.Foreground(theme.Primary).Bold(true).Render(title))
	b.WriteString("\n\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(center.Foreground(theme.TextDim).Render(fmt.Sprintf("Time: %d:%02d", mins, secs)))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("Problems: %d      Correct: %d      Accuracy: %.0f%%",
		sum.Total, sum.Correct, sum.Accuracy*100)
	b.WriteString(center.Foreground(theme.Text).Render(stats))
	b.WriteString("\n\n")

	points := fmt.Sprintf("◆ +%d points  (total %d)      🔥 streak %d", sum.PointsEarned, sum.Points, sum.Streak)
	b.WriteString(center.Foreground(theme.ArcadeYellow).Bold(true).Render(points))
	b.WriteString("\n")

	if s.placed != "" {
		b.WriteString("\n")
		b.WriteString(center.Render(
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Your path: ") +
				lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true).Render(strings.ToUpper(string(s.placed)))))
		b.WriteString("\n")
		b.WriteString(center.Render(theme.Hint.Render(pathBlurb(s.placed))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	var btns []string
	for _, btn := range s.buttons {
		btns = append(btns, btn.View())
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(btns, "\n")))

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(center.Foreground(theme.Error).Render(s.errMsg))
	}
	return b.String()
}

func pathBlurb(p content.Difficulty) string {
	switch p {
	case content.Challenge:
		return "Harder problems and double points."
	case content.Practice:
		return "A steady mix of practice problems."
	}
	return "Step-by-step problems to build the basics."
}
