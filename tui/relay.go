package tui

import (
	"sync"

	"github.com/listentui/listentui/listen"
	"github.com/listentui/listentui/log"
	"github.com/listentui/listentui/playback"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

const relayBuffer = 256

type (
	playbackMsg   struct{ event playback.Event }
	nowPlayingMsg struct{ np listen.NowPlaying }
	previewMsg    struct{ status playback.PreviewStatus }
)

// Relay carries events from background goroutines into the program, in the order they were posted.
// Posting never blocks. When the program falls behind by a full buffer, cache snapshots and
// now playing updates are dropped, everything else waits in a backlog.
type Relay struct {
	msgs chan tea.Msg
	log  *logrus.Entry

	mu      sync.Mutex
	backlog []tea.Msg
}

func NewRelay() *Relay {
	return &Relay{
		msgs: make(chan tea.Msg, relayBuffer),
		log:  log.Component("tui"),
	}
}

// Playback is a playback.Sink.
func (r *Relay) Playback(e playback.Event) {
	r.post(playbackMsg{event: e})
}

// NowPlaying receives gateway updates.
func (r *Relay) NowPlaying(np listen.NowPlaying) {
	r.post(nowPlayingMsg{np: np})
}

// Preview receives the progress of a snippet preview.
func (r *Relay) Preview(status playback.PreviewStatus) {
	r.post(previewMsg{status: status})
}

func (r *Relay) post(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.backlog) == 0 {
		select {
		case r.msgs <- msg:
			return
		default:
		}
	}

	if droppable(msg) {
		r.log.Warnf("interface behind, dropping %T", msg)
		return
	}
	r.backlog = append(r.backlog, msg)
}

// droppable reports whether a later message supersedes msg.
func droppable(msg tea.Msg) bool {
	switch m := msg.(type) {
	case nowPlayingMsg:
		return true
	case previewMsg:
		return m.status.State == playback.PreviewData
	}
	return false
}

// refill moves backlogged messages into the freed buffer.
func (r *Relay) refill() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for len(r.backlog) > 0 {
		select {
		case r.msgs <- r.backlog[0]:
			r.backlog[0] = nil
			r.backlog = r.backlog[1:]
		default:
			return
		}
	}
}

// next waits for the following event. It has to be re-armed after every delivery.
func (r *Relay) next() tea.Cmd {
	return func() tea.Msg {
		msg := <-r.msgs
		r.refill()
		return msg
	}
}
