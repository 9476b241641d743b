package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathpath/internal/ui/theme"
)

// Button is a styled button component.
type Button struct {
	Label    string
	Active   bool
	Disabled bool
	Width    int // 0 uses the default width
	OnPress  func() tea.Cmd
}

// NewButton creates a new button.
func NewButton(label string, active bool, onPress func() tea.Cmd) Button {
	return Button{
		Label:   label,
		Active:  active,
		OnPress: onPress,
	}
}

// Update handles key events.
func (b Button) Update(msg tea.Msg) (Button, tea.Cmd) {
	if !b.Active || b.Disabled {
		return b, nil
	}

	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		if kmsg.String() == "enter" && b.OnPress != nil {
			return b, b.OnPress()
		}
	}

	return b, nil
}

// buttonWidth fits the longest label used on the result screens.
const buttonWidth = 24

// View renders the button. The active button is highlighted and marked,
// a disabled one is dimmed.
func (b Button) View() string {
	w := b.Width
	if w == 0 {
		w = buttonWidth
	}
	style := lipgloss.NewStyle().
		Width(w).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	switch {
	case b.Disabled:
		return style.Foreground(theme.TextDim).BorderForeground(theme.Border).Render(b.Label)
	case !b.Active:
		return style.Foreground(theme.Text).BorderForeground(theme.Border).Render(b.Label)
	}
	return style.Bold(true).
		Foreground(theme.BgDark).
		Background(theme.ArcadeYellow).
		BorderForeground(theme.ArcadeYellow).
		Render("▸ " + b.Label)
}
