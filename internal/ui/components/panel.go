package components

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathpath/internal/ui/theme"
)

// Panel widths stay between these bounds whatever the terminal size.
const (
	minPanelWidth = 20
	maxPanelWidth = 60
)

// PanelWidth returns the inner width shared by every panel on a screen,
// leaving room for the frame border and padding.
func PanelWidth(frameWidth int) int {
	return min(max(frameWidth-6, minPanelWidth), maxPanelWidth)
}

// Frame centers a screen's content inside a double border.
func Frame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Tone picks a panel's border color.
type Tone int

const (
	ToneNeutral Tone = iota
	ToneTutor        // explanations and chat
	ToneCorrect
	ToneWrong
)

func (t Tone) color() color.Color {
	switch t {
	case ToneTutor:
		return theme.Secondary
	case ToneCorrect:
		return theme.Success
	case ToneWrong:
		return theme.Error
	}
	return theme.Border
}

// Panel wraps content in a rounded border of width pw.
func Panel(content string, pw int, tone Tone) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tone.color()).
		Width(pw - 2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}
