package tui

import (
	"fmt"
	"maps"
	"strings"

	"github.com/listentui/listentui/internal/ui"
	"github.com/listentui/listentui/listen"
	"github.com/listentui/listentui/playback"
	"github.com/listentui/listentui/query"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{b.notifier.Update(msg)}
	batch := func(more ...tea.Cmd) tea.Cmd {
		return tea.Batch(append(cmds, more...)...)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, batch(cmd)
	case playbackMsg:
		return b, batch(b.onPlayback(msg.event), b.relay.next())
	case nowPlayingMsg:
		return b, batch(b.onNowPlaying(msg.np), b.relay.next())
	case previewMsg:
		return b, batch(b.onPreview(msg.status), b.relay.next())
	case startedMsg:
		if msg.err != nil {
			b.fatal = msg.err
			return b, b.quit()
		}
		b.snapshot = b.radio.Snapshot()
		if b.state == loadingState {
			b.setState(playerState)
		}
		return b, batch()
	case tickMsg:
		b.snapshot = b.radio.Snapshot()
		return b, batch(b.tick())
	case controlDoneMsg:
		b.snapshot = b.radio.Snapshot()
		if msg.err != nil {
			return b, batch(ui.Notify(fmt.Sprintf("%s failed: %v", msg.action, msg.err)))
		}
		return b, batch()
	case searchDoneMsg:
		b.searching = false
		if msg.err != nil {
			b.raiseError(msg.err)
			return b, batch()
		}
		b.resultsC.Title = fmt.Sprintf("Results for %q", msg.term)
		b.resultsC.ResetSelected()
		b.inputC.Blur()
		b.newState(resultsState)
		return b, batch(b.resultsC.SetItems(b.songItems(msg.songs)), b.checkFavorites(msg.songs...))
	case historyLoadedMsg:
		if msg.err != nil {
			b.raiseError(msg.err)
			return b, batch()
		}
		b.newState(historyState)
		songs := make([]*listen.Song, 0, len(msg.entries))
		for _, e := range msg.entries {
			songs = append(songs, e.Song)
		}
		return b, batch(b.historyC.SetItems(b.historyItems(msg.entries)), b.checkFavorites(songs...))
	case favoritesMsg:
		maps.Copy(b.favorites, msg)
		b.markFavorites()
		return b, batch()
	case favoriteToggledMsg:
		b.favorites[msg.id] = !b.favorites[msg.id]
		b.markFavorites()
		if b.favorites[msg.id] {
			return b, batch(ui.Notify("Added to favorites"))
		}
		return b, batch(ui.Notify("Removed from favorites"))
	case requestedMsg:
		return b, batch(ui.Notify(fmt.Sprintf("Requested %s", msg.song.FormatTitle(b.format))))
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, b.quit()
		}

		if bubblesKey.Matches(msg, b.keymap.back) && b.state != playerState && b.state != loadingState {
			if b.state == searchState {
				b.inputC.SetValue("")
				b.inputC.Blur()
				b.searchSuggestion = mo.None[string]()
			}
			b.previousState()
			if b.state == searchState {
				b.inputC.Focus()
			}
			return b, batch()
		}
	}

	var cmd tea.Cmd
	switch b.state {
	case playerState:
		cmd = b.updatePlayer(msg)
	case searchState:
		cmd = b.updateSearch(msg)
	case resultsState:
		cmd = b.updateResults(msg)
	case historyState:
		cmd = b.updateHistory(msg)
	case songDetailState:
		cmd = b.updateSongDetail(msg)
	case errorState:
		cmd = b.updateError(msg)
	}

	return b, batch(cmd)
}

func (b *statefulBubble) quit() tea.Cmd {
	b.preview.Terminate()
	return tea.Quit
}

func (b *statefulBubble) currentSong() *listen.Song {
	np, ok := b.nowPlaying.Get()
	if !ok {
		return nil
	}
	return np.Song
}

func (b *statefulBubble) showDetails(song *listen.Song) tea.Cmd {
	if song == nil {
		return nil
	}
	b.selected = song
	b.newState(songDetailState)
	return b.checkFavorites(song)
}

func (b *statefulBubble) onPlayback(e playback.Event) tea.Cmd {
	defer func() { b.snapshot = b.radio.Snapshot() }()

	switch e := e.(type) {
	case playback.Started:
		b.underrun = false
		if b.state == loadingState {
			b.setState(playerState)
		}
	case playback.SuccessfulRestart:
		b.underrun = false
		b.restart = mo.None[playback.FailedRestart]()
		return ui.Notify("Stream recovered")
	case playback.FailedRestart:
		b.restart = mo.Some(e)
	case playback.UnderRun:
		b.underrun = true
	case playback.NewSong:
		b.streamTitle = e.Metadata.String()
	case playback.Fail:
		b.fatal = e.Err
		return b.quit()
	}
	return nil
}

func (b *statefulBubble) onNowPlaying(np listen.NowPlaying) tea.Cmd {
	b.nowPlaying = mo.Some(np)
	return b.checkFavorites(np.Song)
}

func (b *statefulBubble) onPreview(status playback.PreviewStatus) tea.Cmd {
	p, _ := b.previewing.Get()

	switch status.State {
	case playback.PreviewPlaying:
		p.playing = true
		b.previewing = mo.Some(p)
	case playback.PreviewData:
		p.progress = status.Cache.Progress()
		b.previewing = mo.Some(p)
	case playback.PreviewUnable:
		return ui.Notify("Preview unavailable")
	case playback.PreviewError:
		return ui.Notify("Preview stopped")
	case playback.PreviewLocked:
		return ui.Notify("A preview is already playing")
	case playback.PreviewDone:
		b.previewing = mo.None[previewProgress]()
		b.snapshot = b.radio.Snapshot()
	}
	return nil
}

func (b *statefulBubble) updatePlayer(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	k := b.keymap
	switch {
	case bubblesKey.Matches(keyMsg, k.quit):
		return b.quit()
	case bubblesKey.Matches(keyMsg, k.playPause):
		return b.control("Play/pause", b.radio.PlayPause)
	case bubblesKey.Matches(keyMsg, k.volumeUp):
		return b.control("Volume", func() error { return b.radio.RaiseVolume(b.volumeStep()) })
	case bubblesKey.Matches(keyMsg, k.volumeDown):
		return b.control("Volume", func() error { return b.radio.LowerVolume(b.volumeStep()) })
	case bubblesKey.Matches(keyMsg, k.mute):
		return b.control("Mute", b.radio.ToggleMute)
	case bubblesKey.Matches(keyMsg, k.restart):
		return tea.Batch(ui.Notify("Restarting stream"), b.control("Restart", func() error {
			b.radio.SafeRestart()
			return nil
		}))
	case bubblesKey.Matches(keyMsg, k.hardRestart):
		return tea.Batch(ui.Notify("Restarting player"), b.control("Hard restart", func() error {
			b.radio.SafeHardRestart()
			return nil
		}))
	case bubblesKey.Matches(keyMsg, k.search):
		b.newState(searchState)
		b.inputC.Focus()
		return textinput.Blink
	case bubblesKey.Matches(keyMsg, k.history):
		return b.loadHistory()
	case bubblesKey.Matches(keyMsg, k.favorite):
		return b.toggleFavorite(b.currentSong())
	case bubblesKey.Matches(keyMsg, k.details):
		return b.showDetails(b.currentSong())
	case bubblesKey.Matches(keyMsg, k.stopPreview):
		b.preview.Terminate()
	case bubblesKey.Matches(keyMsg, k.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
	}
	return nil
}

func (b *statefulBubble) updateSearch(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.acceptSearchSuggestion):
			if suggestion, ok := b.searchSuggestion.Get(); ok {
				b.inputC.SetValue(suggestion)
				b.inputC.CursorEnd()
				b.searchSuggestion = mo.None[string]()
			}
			return nil
		case bubblesKey.Matches(msg, b.keymap.confirm):
			term := strings.TrimSpace(b.inputC.Value())
			if term == "" || b.searching {
				return nil
			}
			return b.search(term)
		}
	}

	var cmd tea.Cmd
	b.inputC, cmd = b.inputC.Update(msg)

	b.searchSuggestion = mo.None[string]()
	if value := b.inputC.Value(); value != "" {
		if suggestion, ok := query.Suggest(value).Get(); ok && suggestion != strings.ToLower(value) {
			b.searchSuggestion = mo.Some(suggestion)
		}
	}
	return cmd
}

func (b *statefulBubble) updateResults(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		item, _ := b.resultsC.SelectedItem().(*listItem)
		switch {
		case bubblesKey.Matches(msg, b.keymap.quit):
			return b.quit()
		case bubblesKey.Matches(msg, b.keymap.confirm):
			if item != nil {
				return b.showDetails(item.song())
			}
			return nil
		case bubblesKey.Matches(msg, b.keymap.favorite):
			if item != nil {
				return b.toggleFavorite(item.song())
			}
			return nil
		}
	}

	var cmd tea.Cmd
	b.resultsC, cmd = b.resultsC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateHistory(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		item, _ := b.historyC.SelectedItem().(*listItem)
		switch {
		case bubblesKey.Matches(msg, b.keymap.quit):
			return b.quit()
		case bubblesKey.Matches(msg, b.keymap.confirm):
			if item != nil {
				return b.showDetails(item.song())
			}
			return nil
		case bubblesKey.Matches(msg, b.keymap.remove):
			if entry, ok := item.internalEntry(); ok {
				return b.removeFromHistory(entry)
			}
			return nil
		}
	}

	var cmd tea.Cmd
	b.historyC, cmd = b.historyC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateSongDetail(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || b.selected == nil {
		return nil
	}

	k := b.keymap
	switch {
	case bubblesKey.Matches(keyMsg, k.quit):
		return b.quit()
	case bubblesKey.Matches(keyMsg, k.request):
		return b.requestSong(b.selected)
	case bubblesKey.Matches(keyMsg, k.preview):
		return b.startPreview(b.selected)
	case bubblesKey.Matches(keyMsg, k.stopPreview):
		b.preview.Terminate()
	case bubblesKey.Matches(keyMsg, k.favorite):
		return b.toggleFavorite(b.selected)
	case bubblesKey.Matches(keyMsg, k.openURL):
		return b.openLink(b.selected)
	}
	return nil
}

func (b *statefulBubble) updateError(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && bubblesKey.Matches(msg, b.keymap.quit) {
		return b.quit()
	}
	return nil
}
