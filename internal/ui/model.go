// Package ui shows short-lived notifications at the bottom of the interface.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Lifetime is how long a notification stays visible.
var Lifetime = 3 * time.Second

// NotificationMsg replaces the current notification.
type NotificationMsg string

// clearNotificationMsg hides the notification of the given generation.
type clearNotificationMsg struct {
	generation int
}

var notificationStyle = lipgloss.NewStyle().Faint(true)

// Model holds the visible notification.
type Model struct {
	notification string
	generation   int
}

// Notify returns a command showing text.
func Notify(text string) tea.Cmd {
	return func() tea.Msg {
		return NotificationMsg(text)
	}
}

func clearAfter(generation int) tea.Cmd {
	return tea.Tick(Lifetime, func(time.Time) tea.Msg {
		return clearNotificationMsg{generation: generation}
	})
}

// Update handles notification messages and ignores everything else.
// A newer notification is not hidden by the timer of an older one.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NotificationMsg:
		m.notification = string(msg)
		m.generation++
		return clearAfter(m.generation)
	case clearNotificationMsg:
		if msg.generation == m.generation {
			m.notification = ""
		}
	}
	return nil
}

// Current returns the visible notification, empty when there is none.
func (m *Model) Current() string {
	return m.notification
}

// View appends the notification to the last line of content.
func (m *Model) View(content string) string {
	if m.notification == "" {
		return content
	}

	lines := strings.Split(content, "\n")
	lines[len(lines)-1] += "  " + notificationStyle.Render(m.notification)
	return strings.Join(lines, "\n")
}
