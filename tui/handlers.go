package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/listentui/listentui/history"
	"github.com/listentui/listentui/internal/ui"
	"github.com/listentui/listentui/listen"
	"github.com/listentui/listentui/log"
	"github.com/listentui/listentui/open"
	"github.com/listentui/listentui/query"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

const tickInterval = time.Second

type (
	startedMsg struct{ err error }
	tickMsg    time.Time

	controlDoneMsg struct {
		action string
		err    error
	}

	searchDoneMsg struct {
		term  string
		songs []*listen.Song
		err   error
	}

	favoritesMsg      map[int]bool
	favoriteToggledMsg struct{ id int }
	requestedMsg      struct{ song *listen.Song }

	historyLoadedMsg struct {
		entries []*history.Entry
		err     error
	}
)

func (b *statefulBubble) start() tea.Cmd {
	return func() tea.Msg {
		return startedMsg{err: b.radio.Start(b.ctx)}
	}
}

func (b *statefulBubble) tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// control runs a radio operation off the event loop. Restarts may block for a while.
func (b *statefulBubble) control(action string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return controlDoneMsg{action: action, err: fn()}
	}
}

func (b *statefulBubble) search(term string) tea.Cmd {
	b.searching = true
	if err := query.Remember(term, 1); err != nil {
		log.Warnf("remember query: %v", err)
	}

	return func() tea.Msg {
		songs, err := b.library.Search(b.ctx, term, b.searchLimit(), false)
		return searchDoneMsg{term: term, songs: songs, err: err}
	}
}

// checkFavorites asks which of the songs are favorites. It does nothing without a session.
func (b *statefulBubble) checkFavorites(songs ...*listen.Song) tea.Cmd {
	if !b.library.LoggedIn() {
		return nil
	}

	ids := lo.Uniq(lo.FilterMap(songs, func(s *listen.Song, _ int) (int, bool) {
		if s == nil {
			return 0, false
		}
		return s.ID, true
	}))
	if len(ids) == 0 {
		return nil
	}

	return func() tea.Msg {
		favorites, err := b.library.CheckFavorite(b.ctx, ids...)
		if err != nil {
			log.Warnf("check favorites: %v", err)
			return nil
		}
		return favoritesMsg(favorites)
	}
}

func (b *statefulBubble) toggleFavorite(song *listen.Song) tea.Cmd {
	if song == nil {
		return nil
	}
	if !b.library.LoggedIn() {
		return ui.Notify("Log in to keep favorites")
	}

	return func() tea.Msg {
		if err := b.library.FavoriteSong(b.ctx, song.ID); err != nil {
			return ui.NotificationMsg(fmt.Sprintf("Could not favorite: %v", err))
		}
		return favoriteToggledMsg{id: song.ID}
	}
}

func (b *statefulBubble) requestSong(song *listen.Song) tea.Cmd {
	if song == nil {
		return nil
	}
	if !b.library.LoggedIn() {
		return ui.Notify("Log in to request songs")
	}

	return func() tea.Msg {
		requested, err := b.library.RequestSong(b.ctx, song.ID)
		switch {
		case errors.Is(err, listen.ErrRequestsExhausted):
			return ui.NotificationMsg("No requests left for today")
		case errors.Is(err, listen.ErrAlreadyQueued):
			return ui.NotificationMsg("Already queued")
		case err != nil:
			return ui.NotificationMsg(fmt.Sprintf("Could not request: %v", err))
		}
		return requestedMsg{song: lo.CoalesceOrEmpty(requested, song)}
	}
}

// startPreview plays the snippet of song. Progress arrives through the relay.
func (b *statefulBubble) startPreview(song *listen.Song) tea.Cmd {
	url, ok := song.SnippetURL().Get()
	if !ok {
		return ui.Notify("No preview for this song")
	}
	if b.preview.Active() {
		return ui.Notify("A preview is already playing")
	}

	b.previewing = mo.Some(previewProgress{songID: song.ID})
	return func() tea.Msg {
		b.preview.Preview(url, b.relay.Preview)
		return nil
	}
}

func (b *statefulBubble) loadHistory() tea.Cmd {
	return func() tea.Msg {
		entries, err := history.Get()
		return historyLoadedMsg{entries: entries, err: err}
	}
}

func (b *statefulBubble) removeFromHistory(entry *history.Entry) tea.Cmd {
	return func() tea.Msg {
		if err := history.Remove(entry.Song.ID); err != nil {
			return ui.NotificationMsg(fmt.Sprintf("Could not remove: %v", err))
		}
		return b.loadHistory()()
	}
}

func (b *statefulBubble) openLink(song *listen.Song) tea.Cmd {
	return func() tea.Msg {
		if err := open.Start(song.Link()); err != nil {
			return ui.NotificationMsg(fmt.Sprintf("Could not open browser: %v", err))
		}
		return nil
	}
}

func (b *statefulBubble) songItems(songs []*listen.Song) []list.Item {
	return lo.Map(songs, func(s *listen.Song, _ int) list.Item {
		return &listItem{internal: s, format: b.format, favorite: b.favorites[s.ID]}
	})
}

func (b *statefulBubble) historyItems(entries []*history.Entry) []list.Item {
	return lo.FilterMap(entries, func(e *history.Entry, _ int) (list.Item, bool) {
		if e.Song == nil {
			return nil, false
		}
		return &listItem{internal: e, format: b.format, favorite: b.favorites[e.Song.ID]}, true
	})
}

// markFavorites refreshes the hearts of the listed songs.
func (b *statefulBubble) markFavorites() {
	for _, l := range []*list.Model{&b.resultsC, &b.historyC} {
		for _, item := range l.Items() {
			if li, ok := item.(*listItem); ok {
				if song := li.song(); song != nil {
					li.favorite = b.favorites[song.ID]
				}
			}
		}
	}
}
