package tui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/listentui/listentui/listen"
	"github.com/listentui/listentui/playback"
	tea "github.com/charmbracelet/bubbletea"
)

type fakeRadio struct {
	mu         sync.Mutex
	calls      []string
	snap       playback.Snapshot
	startErr   error
	controlErr error
}

func (r *fakeRadio) record(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *fakeRadio) called() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *fakeRadio) Start(context.Context) error {
	r.record("start")
	return r.startErr
}

func (r *fakeRadio) Snapshot() playback.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap
}

func (r *fakeRadio) PlayPause() error {
	r.record("play/pause")
	return r.controlErr
}

func (r *fakeRadio) RaiseVolume(amount int) error {
	r.record(fmt.Sprintf("raise %d", amount))
	return r.controlErr
}

func (r *fakeRadio) LowerVolume(amount int) error {
	r.record(fmt.Sprintf("lower %d", amount))
	return r.controlErr
}

func (r *fakeRadio) ToggleMute() error {
	r.record("mute")
	return r.controlErr
}

func (r *fakeRadio) SafeRestart()     { r.record("restart") }
func (r *fakeRadio) SafeHardRestart() { r.record("hard restart") }

type fakePreviewer struct {
	mu         sync.Mutex
	active     bool
	urls       []string
	terminated int
}

func (p *fakePreviewer) Preview(url string, _ func(playback.PreviewStatus)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.urls = append(p.urls, url)
}

func (p *fakePreviewer) Terminate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.terminated++
}

func (p *fakePreviewer) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

type fakeLibrary struct {
	mu         sync.Mutex
	loggedIn   bool
	results    []*listen.Song
	searchErr  error
	favorites  map[int]bool
	favorited  []int
	requested  []int
	requestErr error
}

func (l *fakeLibrary) LoggedIn() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loggedIn
}

func (l *fakeLibrary) Search(_ context.Context, _ string, _ int, _ bool) ([]*listen.Song, error) {
	return l.results, l.searchErr
}

func (l *fakeLibrary) CheckFavorite(_ context.Context, ids ...int) (map[int]bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[int]bool, len(ids))
	for _, id := range ids {
		out[id] = l.favorites[id]
	}
	return out, nil
}

func (l *fakeLibrary) FavoriteSong(_ context.Context, id int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.favorited = append(l.favorited, id)
	return nil
}

func (l *fakeLibrary) RequestSong(_ context.Context, id int) (*listen.Song, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.requestErr != nil {
		return nil, l.requestErr
	}
	l.requested = append(l.requested, id)
	return nil, nil
}

// collect runs cmd and returns what it produced within d. Batches are run concurrently
// and commands that keep blocking, like the relay or timers, are abandoned.
func collect(cmd tea.Cmd, d time.Duration) []tea.Msg {
	if cmd == nil {
		return nil
	}

	out := make(chan []tea.Msg, 1)
	go func() {
		msg := cmd()
		batch, ok := msg.(tea.BatchMsg)
		if !ok {
			if msg == nil {
				out <- nil
				return
			}
			out <- []tea.Msg{msg}
			return
		}

		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			msgs []tea.Msg
		)
		for _, c := range batch {
			c := c
			wg.Add(1)
			go func() {
				defer wg.Done()
				m := collect(c, d/2)
				mu.Lock()
				msgs = append(msgs, m...)
				mu.Unlock()
			}()
		}
		wg.Wait()
		out <- msgs
	}()

	select {
	case msgs := <-out:
		return msgs
	case <-time.After(d):
		return nil
	}
}

// pump feeds msg to the bubble together with the messages its commands produce.
// It reports whether the program was asked to quit.
func pump(b *statefulBubble, msg tea.Msg) (quit bool) {
	queue := []tea.Msg{msg}
	for depth := 0; len(queue) > 0 && depth < 3; depth++ {
		var next []tea.Msg
		for _, m := range queue {
			if _, ok := m.(tea.QuitMsg); ok {
				quit = true
				continue
			}
			_, cmd := b.Update(m)
			next = append(next, collect(cmd, 200*time.Millisecond)...)
		}
		queue = next
	}
	return quit
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	ctrlC = tea.KeyMsg{Type: tea.KeyCtrlC}
)
