package style

import "github.com/charmbracelet/lipgloss"

// Player screen colors. The accent is the pink of the radio site.
var (
	Base     = lipgloss.Color("#1e1e2e")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext  = lipgloss.Color("#a6adc8")
	Pink     = lipgloss.Color("#ff015b")
	Red      = lipgloss.Color("#f38ba8")
	HiRed    = lipgloss.Color("#ff5f87")
	Peach    = lipgloss.Color("#fab387")
	Yellow   = lipgloss.Color("#f9e2af")
	Green    = lipgloss.Color("#a6e3a1")
	Lavender = lipgloss.Color("#b4befe")

	AccentColor = Pink
	ErrorColor  = Red
)
