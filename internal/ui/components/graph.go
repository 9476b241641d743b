package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathpath/internal/graphcheck"
	"github.com/abhisek/mathpath/internal/ui/theme"
)

// GraphGrid is a cursor on the plotting grid. It renders a PointSet owned
// elsewhere; toggling is left to the caller so the set stays in one place.
type GraphGrid struct {
	Cursor graphcheck.Point
	// Step is how many grid units each rendered cell covers.
	Step int
}

// NewGraphGrid starts with the cursor at the origin.
func NewGraphGrid() GraphGrid {
	return GraphGrid{Step: 1}
}

// Update moves the cursor with the arrow keys (or hjkl) within the axis
// range. It reports whether the key toggles the point under the cursor.
func (g GraphGrid) Update(msg tea.Msg) (GraphGrid, bool) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return g, false
	}
	r := graphcheck.AxisRange
	switch kmsg.String() {
	case "up", "k":
		g.Cursor.Y = min(r, g.Cursor.Y+1)
	case "down", "j":
		g.Cursor.Y = max(-r, g.Cursor.Y-1)
	case "left", "h":
		g.Cursor.X = max(-r, g.Cursor.X-1)
	case "right", "l":
		g.Cursor.X = min(r, g.Cursor.X+1)
	case "space", "x":
		return g, true
	}
	return g, false
}

// View draws the grid with axes, plotted points and the cursor. Each
// column is two characters wide so the grid looks roughly square.
func (g GraphGrid) View(pts *graphcheck.PointSet) string {
	r := graphcheck.AxisRange
	axis := lipgloss.NewStyle().Foreground(theme.TextDim)
	dot := lipgloss.NewStyle().Foreground(theme.Text)
	plotted := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	cursor := lipgloss.NewStyle().Foreground(theme.BgDark).Background(theme.ArcadeYellow)

	var b strings.Builder
	for y := r; y >= -r; y-- {
		for x := -r; x <= r; x++ {
			p := graphcheck.Point{X: x, Y: y}
			cell := dot.Render("· ")
			switch {
			case pts != nil && pts.Contains(p):
				cell = plotted.Render("● ")
			case x == 0 && y == 0:
				cell = axis.Render("┼─")
			case x == 0:
				cell = axis.Render("│ ")
			case y == 0:
				cell = axis.Render("──")
			}
			if p == g.Cursor {
				glyph := "+ "
				if pts != nil && pts.Contains(p) {
					glyph = "● "
				}
				cell = cursor.Render(glyph)
			}
			b.WriteString(cell)
		}
		b.WriteString("\n")
	}
	b.WriteString(axis.Render("cursor " + g.Cursor.String()))
	return b.String()
}
