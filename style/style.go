// Package style renders strings with lipgloss.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/listentui/listentui/color"
)

func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

func colored(fg, bg lipgloss.Color) lipgloss.Style {
	return New().Foreground(fg).Background(bg)
}

// Fg returns a renderer with the foreground c.
func Fg(c lipgloss.Color) func(string) string {
	return func(s string) string { return colored(c, "").Render(s) }
}

// Truncate returns a renderer that wraps text to width.
func Truncate(width int) func(string) string {
	return func(s string) string { return New().Width(width).Render(s) }
}

// Tag returns a renderer for padded labels such as the station name.
func Tag(fg, bg lipgloss.Color) func(string) string {
	return func(s string) string { return colored(fg, bg).Padding(0, 1).Render(s) }
}

var (
	Faint = func(s string) string { return New().Faint(true).Render(s) }
	Bold  = func(s string) string { return New().Bold(true).Render(s) }

	Title      = Tag(color.New("230"), AccentColor)
	ErrorTitle = Tag(color.New("230"), color.Red)
)
