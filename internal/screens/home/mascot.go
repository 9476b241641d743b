package home

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathpath/internal/session"
	"github.com/abhisek/mathpath/internal/ui/theme"
)

// MascotVariant selects the mascot's mood.
type MascotVariant int

const (
	MascotIdle MascotVariant = iota
	MascotCelebrating
	MascotAlert
)

// pickMascot looks alert until the learner is placed and celebrates a
// running streak.
func pickMascot(placed bool, streak int) MascotVariant {
	switch {
	case !placed:
		return MascotAlert
	case streak >= session.SmallStreak:
		return MascotCelebrating
	}
	return MascotIdle
}

var mascotArt = map[MascotVariant]string{
	MascotIdle: `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ y=mx│
└─────┘`,
	MascotCelebrating: `┌─────┐
│ ★ ★ │
│  ▿  │
│ y=mx│
└─╥═╥─┘
  ╚═╝`,
	MascotAlert: `┌─────┐
│ ◉ ◉ │ !
│  ▽  │
│ y=mx│
└─────┘`,
}

func (v MascotVariant) color() color.Color {
	switch v {
	case MascotCelebrating:
		return theme.ArcadeYellow
	case MascotAlert:
		return theme.Accent
	}
	return theme.Primary
}

// RenderMascot draws the mascot in the variant's color. Unknown variants
// draw the idle mascot.
func RenderMascot(v MascotVariant) string {
	art, ok := mascotArt[v]
	if !ok {
		art, v = mascotArt[MascotIdle], MascotIdle
	}
	return lipgloss.NewStyle().Foreground(v.color()).Render(art)
}
