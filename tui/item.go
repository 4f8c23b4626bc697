package tui

import (
	"fmt"
	"strings"

	"github.com/listentui/listentui/history"
	"github.com/listentui/listentui/icon"
	"github.com/listentui/listentui/listen"
	"github.com/listentui/listentui/style"
	"github.com/listentui/listentui/util"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
)

// listItem wraps a song or a history entry for the lists.
type listItem struct {
	internal any
	format   listen.Format
	favorite bool
}

func (t *listItem) song() *listen.Song {
	switch e := t.internal.(type) {
	case *listen.Song:
		return e
	case *history.Entry:
		return e.Song
	default:
		return nil
	}
}

func (t *listItem) Title() string {
	song := t.song()
	if song == nil {
		return ""
	}

	title := song.FormatTitle(t.format)
	if t.favorite {
		title = fmt.Sprintf("%s %s", title, lipgloss.NewStyle().Foreground(style.Red).Render(icon.Get(icon.Heart)))
	}
	return title
}

func (t *listItem) Description() string {
	song := t.song()
	if song == nil {
		return ""
	}

	parts := lo.Compact([]string{
		song.FormatArtists(t.format),
		song.FormatSource(t.format),
	})
	if song.Duration > 0 {
		parts = append(parts, style.Faint(util.FormatDuration(song.DurationTime())))
	}

	if entry, ok := t.internal.(*history.Entry); ok {
		parts = append(parts, style.Faint(entry.HeardAt.Local().Format("Jan 2 15:04")))
	}

	return strings.Join(parts, " • ")
}

func (t *listItem) FilterValue() string {
	song := t.song()
	if song == nil {
		return ""
	}
	return song.FormatTitle(t.format) + " " + song.FormatArtists(t.format)
}

// internalEntry returns the history entry behind t.
func (t *listItem) internalEntry() (*history.Entry, bool) {
	if t == nil {
		return nil, false
	}
	entry, ok := t.internal.(*history.Entry)
	return entry, ok
}
