// Package theme holds the colors and shared styles of the terminal UI. The
// palette follows the learner's equipped theme; call Apply after it changes.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette is a named set of colors.
type Palette struct {
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Success   color.Color
	Error     color.Color
	Text      color.Color
	TextDim   color.Color
	BgDark    color.Color
	BgCard    color.Color
	Border    color.Color
	Highlight color.Color
	Info      color.Color
}

// Palettes by the theme value of shop items.
var Palettes = map[string]Palette{
	"default": {
		Primary:   lipgloss.Color("#2563EB"), // Blue
		Secondary: lipgloss.Color("#14B8A6"), // Teal
		Accent:    lipgloss.Color("#F97316"), // Orange
		Success:   lipgloss.Color("#22C55E"),
		Error:     lipgloss.Color("#F43F5E"),
		Text:      lipgloss.Color("#F8FAFC"),
		TextDim:   lipgloss.Color("#94A3B8"),
		BgDark:    lipgloss.Color("#0F172A"),
		BgCard:    lipgloss.Color("#1E293B"),
		Border:    lipgloss.Color("#334155"),
		Highlight: lipgloss.Color("#FACC15"),
		Info:      lipgloss.Color("#22D3EE"),
	},
	"night": {
		Primary:   lipgloss.Color("#818CF8"),
		Secondary: lipgloss.Color("#2DD4BF"),
		Accent:    lipgloss.Color("#FB923C"),
		Success:   lipgloss.Color("#4ADE80"),
		Error:     lipgloss.Color("#FB7185"),
		Text:      lipgloss.Color("#E2E8F0"),
		TextDim:   lipgloss.Color("#64748B"),
		BgDark:    lipgloss.Color("#020617"),
		BgCard:    lipgloss.Color("#0F172A"),
		Border:    lipgloss.Color("#1E293B"),
		Highlight: lipgloss.Color("#FDE047"),
		Info:      lipgloss.Color("#67E8F9"),
	},
	"royal": {
		Primary:   lipgloss.Color("#8B5CF6"), // Vivid Purple
		Secondary: lipgloss.Color("#EC4899"),
		Accent:    lipgloss.Color("#F59E0B"),
		Success:   lipgloss.Color("#22C55E"),
		Error:     lipgloss.Color("#F43F5E"),
		Text:      lipgloss.Color("#FAF5FF"),
		TextDim:   lipgloss.Color("#A78BFA"),
		BgDark:    lipgloss.Color("#1E1B4B"),
		BgCard:    lipgloss.Color("#2E1065"),
		Border:    lipgloss.Color("#4C1D95"),
		Highlight: lipgloss.Color("#FCD34D"),
		Info:      lipgloss.Color("#C4B5FD"),
	},
}

// Current palette colors.
var (
	Primary      color.Color
	Secondary    color.Color
	Accent       color.Color
	Success      color.Color
	Error        color.Color
	Text         color.Color
	TextDim      color.Color
	BgDark       color.Color
	BgCard       color.Color
	Border       color.Color
	ArcadeYellow color.Color
	ArcadeCyan   color.Color
)

// Shared styles, rebuilt by Apply.
var (
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Body      lipgloss.Style
	Hint      lipgloss.Style
	Card      lipgloss.Style
	Selected  lipgloss.Style
	Correct   lipgloss.Style
	Incorrect lipgloss.Style
)

var current string

func init() { Apply("default") }

// Current returns the name of the applied palette.
func Current() string { return current }

// Apply switches to the named palette. Unknown names fall back to
// "default". It reports whether anything changed.
func Apply(name string) bool {
	p, ok := Palettes[name]
	if !ok {
		name, p = "default", Palettes["default"]
	}
	if name == current {
		return false
	}
	current = name

	Primary, Secondary, Accent = p.Primary, p.Secondary, p.Accent
	Success, Error = p.Success, p.Error
	Text, TextDim = p.Text, p.TextDim
	BgDark, BgCard, Border = p.BgDark, p.BgCard, p.Border
	ArcadeYellow, ArcadeCyan = p.Highlight, p.Info

	Title = lipgloss.NewStyle().Bold(true).Foreground(Primary).Align(lipgloss.Center)
	Subtitle = lipgloss.NewStyle().Foreground(TextDim).Align(lipgloss.Center)
	Body = lipgloss.NewStyle().Foreground(Text)
	Hint = lipgloss.NewStyle().Foreground(TextDim).Italic(true)
	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
	Selected = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Correct = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect = lipgloss.NewStyle().Foreground(Error).Bold(true)
	return true
}
