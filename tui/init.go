package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Init starts the stream and begins listening for background events.
func (b *statefulBubble) Init() tea.Cmd {
	return tea.Batch(b.start(), b.relay.next(), b.tick(), b.spinnerC.Tick)
}
