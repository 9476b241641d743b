package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathpath/internal/ui/components"
	"github.com/abhisek/mathpath/internal/ui/theme"
)

const titleBanner = `┳┳┓┏┓┏┳┓┓┏┏┓┏┓┏┳┓┓┏
┃┃┃┣┫ ┃ ┣┫┃┃┣┫ ┃ ┣┫
┛ ┗┛┗ ┻ ┛┗┣┛┛┗ ┻ ┛┗`

const titleCompact = "M · A · T · H · P · A · T · H"

// menuButtonWidth fits the longest lesson title.
const menuButtonWidth = 28

// centered places s in the middle of a panel-wide line.
func centered(s string, cw int) string {
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(s)
}

func renderTitle(cw int, compact bool) string {
	title := titleBanner
	if compact {
		title = titleCompact
	}
	return centered(lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(title), cw)
}

// renderStatsBar shows points, streak and the placement path. The path
// reads NOT PLACED until the diagnostic is done.
func renderStatsBar(st statsView, cw int, compact bool) string {
	points := fmt.Sprintf("◆ %d POINTS", st.points)
	streak := fmt.Sprintf("🔥 %d STREAK", st.streak)
	sep := "  "
	if compact {
		points, streak, sep = fmt.Sprintf("◆%d", st.points), fmt.Sprintf("🔥%d", st.streak), " "
	}

	path := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true).Render(strings.ToUpper(string(st.path)))
	if !st.placed {
		path = lipgloss.NewStyle().Foreground(theme.TextDim).Render("NOT PLACED")
	}

	stats := strings.Join([]string{
		lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(points),
		lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(streak),
		path,
	}, sep)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// renderMenu draws one button per item. Compact terminals get plain lines
// since bordered buttons would overflow.
func renderMenu(items []menuLine, selected, cw int, compact bool) string {
	lines := make([]string, len(items))
	for i, it := range items {
		if !compact {
			lines[i] = components.Button{
				Label:    it.label,
				Active:   i == selected,
				Disabled: it.disabled,
				Width:    menuButtonWidth,
			}.View()
			continue
		}
		switch {
		case it.disabled:
			lines[i] = lipgloss.NewStyle().Foreground(theme.TextDim).Render("   " + it.label)
		case i == selected:
			lines[i] = lipgloss.NewStyle().Foreground(theme.BgDark).Background(theme.ArcadeYellow).
				Bold(true).Render(" ▸ " + it.label + " ")
		default:
			lines[i] = lipgloss.NewStyle().Foreground(theme.Text).Render("   " + it.label)
		}
	}
	return centered(strings.Join(lines, "\n"), cw)
}

// menuLine is one menu entry as the renderer sees it.
type menuLine struct {
	label    string
	disabled bool
}

func renderLLMBanner(cw int) string {
	return centered(lipgloss.NewStyle().Foreground(theme.Accent).
		Render("⚠ No AI provider configured: the Assessment and tutor chat are off"), cw)
}

func renderDetail(text string, cw int) string {
	return centered(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(text), cw)
}
