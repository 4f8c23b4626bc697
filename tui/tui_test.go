package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/listentui/listentui/filesystem"
	"github.com/listentui/listentui/history"
	"github.com/listentui/listentui/key"
	"github.com/listentui/listentui/listen"
	"github.com/listentui/listentui/player"
	"github.com/listentui/listentui/playback"
	"github.com/listentui/listentui/query"
	tea "github.com/charmbracelet/bubbletea"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func secretBase() *listen.Song {
	return &listen.Song{
		ID:       42,
		Title:    "Secret Base",
		Duration: 240,
		Snippet:  "https://cdn.listen.moe/snippets/42.ogg",
		Artists:  []*listen.Artist{{ID: 1, Named: listen.Named{Name: "ZONE"}}},
		Sources:  []*listen.Source{{ID: 3, Named: listen.Named{Name: "Anohana"}}},
	}
}

type fixture struct {
	bubble    *statefulBubble
	radio     *fakeRadio
	previewer *fakePreviewer
	library   *fakeLibrary
}

func newFixture() fixture {
	viper.Set(key.PlayerVolumeStep, 5)
	viper.Set(key.SearchLimit, 10)

	f := fixture{
		radio:     &fakeRadio{snap: playback.Snapshot{State: playback.Playing, Volume: 70, Paused: player.False}},
		previewer: &fakePreviewer{},
		library:   &fakeLibrary{favorites: map[int]bool{}},
	}
	f.bubble = newBubble(context.Background(), Options{
		Radio:     f.radio,
		Previewer: f.previewer,
		Library:   f.library,
		Relay:     NewRelay(),
		Station:   "kpop",
	})
	f.bubble.resize(120, 40)
	return f
}

func TestStartup(t *testing.T) {
	Convey("Given a fresh interface", t, func() {
		f := newFixture()
		b := f.bubble

		So(b.state, ShouldEqual, loadingState)
		So(b.View(), ShouldContainSubstring, "LISTEN.moe")
		So(b.View(), ShouldContainSubstring, "KPOP")

		Convey("A started radio should show the player", func() {
			So(pump(b, startedMsg{}), ShouldBeFalse)
			So(b.state, ShouldEqual, playerState)
			So(b.snapshot.Volume, ShouldEqual, 70)
			So(b.View(), ShouldContainSubstring, "Waiting for the first song")
		})

		Convey("A radio failing to start should quit", func() {
			boom := errors.New("no audio device")
			So(pump(b, startedMsg{err: boom}), ShouldBeTrue)
			So(b.fatal, ShouldEqual, boom)
			So(f.previewer.terminated, ShouldEqual, 1)
		})
	})
}

func TestPlayerControls(t *testing.T) {
	Convey("Given a playing radio", t, func() {
		f := newFixture()
		b := f.bubble
		pump(b, startedMsg{})

		Convey("Keys should drive the radio", func() {
			pump(b, space)
			pump(b, runes("+"))
			pump(b, runes("-"))
			pump(b, runes("m"))
			pump(b, runes("r"))
			pump(b, runes("R"))

			So(f.radio.called(), ShouldResemble, []string{
				"play/pause",
				"raise 5",
				"lower 5",
				"mute",
				"restart",
				"hard restart",
			})
		})

		Convey("A failing control should be reported", func() {
			f.radio.controlErr = errors.New("socket closed")
			pump(b, runes("+"))
			So(b.notifier.Current(), ShouldEqual, "Volume failed: socket closed")
		})

		Convey("The status line should follow the snapshot", func() {
			f.radio.snap.Muted = true
			pump(b, tickMsg(time.Now()))
			So(b.View(), ShouldContainSubstring, "muted")

			f.radio.snap.Paused = player.True
			pump(b, tickMsg(time.Now()))
			So(b.View(), ShouldContainSubstring, "paused")
		})

		Convey("Quitting should stop a running preview", func() {
			So(pump(b, runes("q")), ShouldBeTrue)
			So(f.previewer.terminated, ShouldEqual, 1)
		})

		Convey("Force quit should work from any screen", func() {
			pump(b, runes("/"))
			So(b.state, ShouldEqual, searchState)
			So(pump(b, ctrlC), ShouldBeTrue)
		})
	})
}

func TestPlaybackEvents(t *testing.T) {
	Convey("Given a playing radio", t, func() {
		f := newFixture()
		b := f.bubble
		pump(b, startedMsg{})

		Convey("A failed restart should be shown until the stream recovers", func() {
			f.radio.snap.State = playback.Restarting
			pump(b, playbackMsg{event: playback.FailedRestart{RetryNo: 3, Timeout: 8 * time.Second, SoftCap: 5, HardCap: 10}})
			So(b.View(), ShouldContainSubstring, "restart 3/10 failed")
			So(b.View(), ShouldContainSubstring, "restarting")

			f.radio.snap.State = playback.Playing
			pump(b, playbackMsg{event: playback.SuccessfulRestart{}})
			So(b.View(), ShouldNotContainSubstring, "restart 3/10 failed")
			So(b.notifier.Current(), ShouldEqual, "Stream recovered")
		})

		Convey("An underrun should show buffering until the next start", func() {
			pump(b, playbackMsg{event: playback.UnderRun{}})
			So(b.View(), ShouldContainSubstring, "buffering")

			pump(b, playbackMsg{event: playback.Started{}})
			So(b.View(), ShouldNotContainSubstring, "buffering")
		})

		Convey("Stream metadata should be shown before the gateway reports", func() {
			pump(b, playbackMsg{event: playback.NewSong{Metadata: player.Metadata{Title: "Secret Base", Artist: "ZONE"}}})
			So(b.streamTitle, ShouldNotBeEmpty)
			So(b.View(), ShouldContainSubstring, "Secret Base")
		})

		Convey("A fatal failure should quit with the error", func() {
			boom := errors.New("gave up")
			So(pump(b, playbackMsg{event: playback.Fail{Err: boom}}), ShouldBeTrue)
			So(b.fatal, ShouldEqual, boom)
		})
	})
}

func TestNowPlaying(t *testing.T) {
	Convey("Given a gateway update", t, func() {
		f := newFixture()
		b := f.bubble
		pump(b, startedMsg{})

		np := listen.NowPlaying{
			Song:      secretBase(),
			Requester: &listen.Requester{DisplayName: "Jinta"},
			Listeners: 120,
			StartTime: time.Now().Add(-time.Minute),
		}

		Convey("The song should be shown with its details", func() {
			pump(b, nowPlayingMsg{np: np})
			view := b.View()
			So(view, ShouldContainSubstring, "Secret Base")
			So(view, ShouldContainSubstring, "ZONE")
			So(view, ShouldContainSubstring, "Anohana")
			So(view, ShouldContainSubstring, "120 listeners")
			So(view, ShouldContainSubstring, "requested by Jinta")
			So(view, ShouldContainSubstring, "/ 4:00")
		})

		Convey("Favorites should be checked only with a session", func() {
			f.library.favorites[42] = true
			pump(b, nowPlayingMsg{np: np})
			So(b.favorites[42], ShouldBeFalse)

			f.library.loggedIn = true
			pump(b, nowPlayingMsg{np: np})
			So(b.favorites[42], ShouldBeTrue)
		})

		Convey("Favoriting needs a session", func() {
			pump(b, nowPlayingMsg{np: np})
			pump(b, runes("f"))
			So(b.notifier.Current(), ShouldEqual, "Log in to keep favorites")

			f.library.loggedIn = true
			pump(b, runes("f"))
			So(f.library.favorited, ShouldResemble, []int{42})
			So(b.favorites[42], ShouldBeTrue)
			So(b.notifier.Current(), ShouldEqual, "Added to favorites")
		})

		Convey("Details should open the current song", func() {
			pump(b, nowPlayingMsg{np: np})
			pump(b, runes("i"))
			So(b.state, ShouldEqual, songDetailState)
			So(b.selected.ID, ShouldEqual, 42)

			pump(b, esc)
			So(b.state, ShouldEqual, playerState)
		})
	})
}

func TestSearch(t *testing.T) {
	Convey("Given the search screen", t, func() {
		_ = query.Forget("secret")

		f := newFixture()
		b := f.bubble
		pump(b, startedMsg{})
		pump(b, runes("/"))
		So(b.state, ShouldEqual, searchState)

		f.library.results = []*listen.Song{secretBase(), {ID: 7, Title: "Secret Garden"}}

		Convey("Searching should list the results", func() {
			pump(b, runes("secret"))
			So(b.inputC.Value(), ShouldEqual, "secret")

			pump(b, enter)
			So(b.state, ShouldEqual, resultsState)
			So(b.resultsC.Items(), ShouldHaveLength, 2)
			So(b.resultsC.Title, ShouldEqual, `Results for "secret"`)
			So(query.Suggest("sec").OrEmpty(), ShouldEqual, "secret")

			Convey("and a result should open its details", func() {
				pump(b, enter)
				So(b.state, ShouldEqual, songDetailState)
				So(b.selected.ID, ShouldEqual, 42)

				Convey("and going back should retrace the way", func() {
					pump(b, esc)
					So(b.state, ShouldEqual, resultsState)
					pump(b, esc)
					So(b.state, ShouldEqual, searchState)
					So(b.inputC.Focused(), ShouldBeTrue)
					pump(b, esc)
					So(b.state, ShouldEqual, playerState)
					So(b.inputC.Value(), ShouldBeEmpty)
				})
			})
		})

		Convey("An empty term should not search", func() {
			pump(b, enter)
			So(b.state, ShouldEqual, searchState)
		})

		Convey("A failed search should show the error", func() {
			f.library.searchErr = errors.New("api down")
			pump(b, runes("secret"))
			pump(b, enter)
			So(b.state, ShouldEqual, errorState)
			So(b.View(), ShouldContainSubstring, "api down")

			pump(b, esc)
			So(b.state, ShouldEqual, searchState)
		})

		Convey("A previous query should be suggested", func() {
			So(query.Remember("secret base", 1), ShouldBeNil)
			pump(b, runes("secret b"))
			So(b.searchSuggestion.OrEmpty(), ShouldEqual, "secret base")
			So(b.View(), ShouldContainSubstring, "secret base (tab)")

			pump(b, tab)
			So(b.inputC.Value(), ShouldEqual, "secret base")
			So(b.searchSuggestion.IsAbsent(), ShouldBeTrue)
		})

		Reset(func() {
			_ = query.Forget("secret")
			_ = query.Forget("secret base")
		})
	})
}

func TestSongDetail(t *testing.T) {
	Convey("Given the details of a song", t, func() {
		f := newFixture()
		b := f.bubble
		pump(b, startedMsg{})

		song := secretBase()
		pump(b, nowPlayingMsg{np: listen.NowPlaying{Song: song}})
		pump(b, runes("i"))
		So(b.state, ShouldEqual, songDetailState)
		So(b.View(), ShouldContainSubstring, "https://listen.moe/songs/42")

		Convey("Requesting needs a session", func() {
			pump(b, enter)
			So(b.notifier.Current(), ShouldEqual, "Log in to request songs")
			So(f.library.requested, ShouldBeEmpty)
		})

		Convey("Requesting should queue the song", func() {
			f.library.loggedIn = true
			pump(b, enter)
			So(f.library.requested, ShouldResemble, []int{42})
			So(b.notifier.Current(), ShouldEqual, "Requested Secret Base")
		})

		Convey("Exhausted requests should be explained", func() {
			f.library.loggedIn = true
			f.library.requestErr = fmt.Errorf("request: %w", listen.ErrRequestsExhausted)
			pump(b, enter)
			So(b.notifier.Current(), ShouldEqual, "No requests left for today")
		})

		Convey("Previewing should play the snippet and report its progress", func() {
			pump(b, runes("p"))
			So(f.previewer.urls, ShouldResemble, []string{song.Snippet})
			So(b.previewing.IsPresent(), ShouldBeTrue)
			So(b.View(), ShouldContainSubstring, "preview loading")

			pump(b, previewMsg{status: playback.PreviewStatus{State: playback.PreviewPlaying}})
			pump(b, previewMsg{status: playback.PreviewStatus{
				State: playback.PreviewData,
				Cache: player.CacheState{ReaderPts: 5, CacheEnd: 10},
			}})
			p := b.previewing.MustGet()
			So(p.playing, ShouldBeTrue)
			So(p.progress, ShouldEqual, 0.5)
			So(p.songID, ShouldEqual, 42)

			pump(b, previewMsg{status: playback.PreviewStatus{State: playback.PreviewFinished}})
			So(b.previewing.IsPresent(), ShouldBeTrue)

			pump(b, previewMsg{status: playback.PreviewStatus{State: playback.PreviewDone}})
			So(b.previewing.IsAbsent(), ShouldBeTrue)
		})

		Convey("A locked preview should be reported", func() {
			pump(b, previewMsg{status: playback.PreviewStatus{State: playback.PreviewLocked}})
			So(b.notifier.Current(), ShouldEqual, "A preview is already playing")
		})

		Convey("A second preview should not start while one is active", func() {
			f.previewer.active = true
			pump(b, runes("p"))
			So(f.previewer.urls, ShouldBeEmpty)
			So(b.notifier.Current(), ShouldEqual, "A preview is already playing")
		})

		Convey("A song without a snippet cannot be previewed", func() {
			b.selected = &listen.Song{ID: 1, Title: "Silence"}
			So(b.View(), ShouldContainSubstring, "No preview available")
			pump(b, runes("p"))
			So(f.previewer.urls, ShouldBeEmpty)
			So(b.notifier.Current(), ShouldEqual, "No preview for this song")
		})

		Convey("Stopping should terminate the preview", func() {
			pump(b, runes("x"))
			So(f.previewer.terminated, ShouldEqual, 1)
		})
	})
}

func TestHistoryScreen(t *testing.T) {
	Convey("Given songs heard before", t, func() {
		viper.Set(key.HistorySave, true)
		viper.Set(key.HistoryLimit, 10)
		So(history.Clear(), ShouldBeNil)

		at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		So(history.Record(listen.NowPlaying{Song: secretBase()}, at), ShouldBeNil)
		So(history.Record(listen.NowPlaying{Song: &listen.Song{ID: 7, Title: "Secret Garden"}}, at.Add(time.Minute)), ShouldBeNil)

		f := newFixture()
		b := f.bubble
		pump(b, startedMsg{})

		Convey("They should be listed newest first", func() {
			pump(b, runes("h"))
			So(b.state, ShouldEqual, historyState)

			items := b.historyC.Items()
			So(items, ShouldHaveLength, 2)
			So(items[0].(*listItem).song().ID, ShouldEqual, 7)

			Convey("and removing one should refresh the list", func() {
				pump(b, runes("d"))
				So(b.historyC.Items(), ShouldHaveLength, 1)

				entries, err := history.Get()
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 1)
				So(entries[0].Song.ID, ShouldEqual, 42)
			})
		})

		Reset(func() {
			_ = history.Clear()
		})
	})
}

func TestRelay(t *testing.T) {
	Convey("Given a relay", t, func() {
		r := NewRelay()

		Convey("Events should be delivered in order", func() {
			r.Playback(playback.Started{})
			r.NowPlaying(listen.NowPlaying{Listeners: 3})
			r.Preview(playback.PreviewStatus{State: playback.PreviewDone})

			So(r.next()(), ShouldResemble, playbackMsg{event: playback.Started{}})
			So(r.next()(), ShouldResemble, nowPlayingMsg{np: listen.NowPlaying{Listeners: 3}})
			So(r.next()(), ShouldResemble, previewMsg{status: playback.PreviewStatus{State: playback.PreviewDone}})
		})

		Convey("Posting should not block when the buffer is full", func() {
			done := make(chan struct{})
			go func() {
				defer close(done)
				for i := 0; i < relayBuffer+10; i++ {
					r.Playback(playback.UnderRun{})
				}
			}()

			select {
			case <-done:
			case <-time.After(time.Second):
			}
			So(len(r.msgs), ShouldEqual, relayBuffer)
		})

		Convey("A full buffer should drop only superseded updates", func() {
			for i := 0; i < relayBuffer+5; i++ {
				r.NowPlaying(listen.NowPlaying{Listeners: 1})
			}
			r.Playback(playback.Fail{Err: player.ErrPlaybackTimeout})
			r.Preview(playback.PreviewStatus{State: playback.PreviewData})
			r.Preview(playback.PreviewStatus{State: playback.PreviewDone})
			r.NowPlaying(listen.NowPlaying{Listeners: 2})
			So(len(r.msgs), ShouldEqual, relayBuffer)

			for i := 0; i < relayBuffer; i++ {
				So(r.next()(), ShouldResemble, nowPlayingMsg{np: listen.NowPlaying{Listeners: 1}})
			}
			So(r.next()(), ShouldResemble, playbackMsg{event: playback.Fail{Err: player.ErrPlaybackTimeout}})
			So(r.next()(), ShouldResemble, previewMsg{status: playback.PreviewStatus{State: playback.PreviewDone}})
			So(len(r.msgs), ShouldEqual, 0)

			Convey("and deliver directly again once caught up", func() {
				r.Playback(playback.Started{})
				So(r.next()(), ShouldResemble, playbackMsg{event: playback.Started{}})
			})
		})
	})
}

var _ tea.Model = (*statefulBubble)(nil)
