package playback

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/listentui/listentui/log"
	"github.com/listentui/listentui/player"
	"github.com/sirupsen/logrus"
)

// PreviewState tags a PreviewStatus.
type PreviewState int

const (
	// PreviewUnable means the snippet could not be opened.
	PreviewUnable PreviewState = iota
	// PreviewError means the preview broke off or was terminated.
	PreviewError
	// PreviewLocked means another preview is active, nothing was started.
	PreviewLocked
	// PreviewPlaying means the snippet is audible.
	PreviewPlaying
	// PreviewData carries a new cache snapshot for progress rendering.
	PreviewData
	// PreviewFinished means the snippet played to its end.
	PreviewFinished
	// PreviewDone is always the last status of a started preview.
	PreviewDone
)

func (p PreviewState) String() string {
	return [...]string{"unable", "error", "locked", "playing", "data", "finished", "done"}[p]
}

// PreviewStatus is reported to the caller of Preview.
type PreviewStatus struct {
	State PreviewState
	Cache player.CacheState
	Err   error
}

// mainStream is the part of the supervisor a preview borrows the audio device from.
type mainStream interface {
	PauseForPreview() (bool, error)
	Play() error
	Volume() int
	SetPreviewActive(bool)
}

// PreviewFactory creates the backend of a preview at the given volume.
type PreviewFactory func(volume int) player.Backend

type previewSession struct {
	url        string
	backend    player.Backend
	pausedMain bool
	terminated atomic.Bool
}

// Previewer plays song snippets on a second backend while the main stream is paused.
// At most one preview exists at a time, further requests are rejected, never queued.
type Previewer struct {
	main     mainStream
	factory  PreviewFactory
	timeout  time.Duration
	interval time.Duration
	log      *logrus.Entry

	slot    chan struct{}
	mu      sync.Mutex
	session *previewSession
	wg      sync.WaitGroup
}

// NewPreviewer creates a previewer lending the device of main.
// timeout bounds how long a snippet may take to start.
func NewPreviewer(main *Supervisor, factory PreviewFactory, timeout time.Duration) *Previewer {
	return newPreviewer(main, factory, timeout)
}

func newPreviewer(main mainStream, factory PreviewFactory, timeout time.Duration) *Previewer {
	return &Previewer{
		main:     main,
		factory:  factory,
		timeout:  timeout,
		interval: 250 * time.Millisecond,
		log:      log.Component("preview"),
		slot:     make(chan struct{}, 1),
	}
}

// Preview plays url on a worker goroutine and reports its progress to onEvent.
// When a preview is already active onEvent receives PreviewLocked before Preview returns.
// Otherwise onEvent receives PreviewDone exactly once, after the main stream was restored.
func (p *Previewer) Preview(url string, onEvent func(PreviewStatus)) {
	select {
	case p.slot <- struct{}{}:
	default:
		onEvent(PreviewStatus{State: PreviewLocked})
		return
	}

	session := &previewSession{
		url:     url,
		backend: p.factory(p.main.Volume()),
	}

	p.mu.Lock()
	p.session = session
	p.mu.Unlock()

	p.wg.Add(1)
	go p.run(session, onEvent)
}

// Active reports whether a preview is running.
func (p *Previewer) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session != nil
}

// Terminate stops the active preview, if any. The main stream is restored
// by the preview's own goroutine. Calling it without an active preview does nothing.
func (p *Previewer) Terminate() {
	p.mu.Lock()
	session := p.session
	p.mu.Unlock()

	if session == nil || !session.terminated.CompareAndSwap(false, true) {
		return
	}

	p.log.Infof("terminating preview of %s", session.url)
	if err := session.backend.Terminate(); err != nil {
		p.log.Warnf("terminate preview: %v", err)
	}
}

// Wait blocks until the active preview, if any, is done.
func (p *Previewer) Wait() {
	p.wg.Wait()
}

func (p *Previewer) run(session *previewSession, onEvent func(PreviewStatus)) {
	defer p.wg.Done()
	defer p.finish(session, onEvent)

	p.main.SetPreviewActive(true)

	paused, err := p.main.PauseForPreview()
	if err != nil {
		p.log.Warnf("pause main stream: %v", err)
	}
	session.pausedMain = paused

	if session.terminated.Load() {
		onEvent(PreviewStatus{State: PreviewError, Err: player.ErrShutdown})
		return
	}

	p.log.Infof("previewing %s", session.url)
	if err := session.backend.Play(session.url, p.timeout); err != nil {
		if session.terminated.Load() || errors.Is(err, player.ErrShutdown) {
			onEvent(PreviewStatus{State: PreviewError, Err: err})
			return
		}
		p.log.Warnf("preview unavailable: %v", err)
		onEvent(PreviewStatus{State: PreviewUnable, Err: err})
		return
	}

	onEvent(PreviewStatus{State: PreviewPlaying})

	stop := make(chan struct{})
	pumped := make(chan struct{})
	go func() {
		defer close(pumped)
		p.pumpCache(session.backend, onEvent, stop)
	}()

	err = session.backend.WaitForPlayback()
	close(stop)
	<-pumped

	switch {
	case err == nil:
		onEvent(PreviewStatus{State: PreviewFinished})
	default:
		onEvent(PreviewStatus{State: PreviewError, Err: fmt.Errorf("preview: %w", err)})
	}
}

// finish releases the session and hands the device back to the main stream.
// It runs on every path out of run.
func (p *Previewer) finish(session *previewSession, onEvent func(PreviewStatus)) {
	session.terminated.Store(true)
	if err := session.backend.Terminate(); err != nil {
		p.log.Warnf("terminate preview: %v", err)
	}

	p.main.SetPreviewActive(false)

	// resume only what the preview paused
	if session.pausedMain {
		if err := p.main.Play(); err != nil {
			p.log.Warnf("resume main stream: %v", err)
		}
	}

	p.mu.Lock()
	p.session = nil
	p.mu.Unlock()
	<-p.slot

	onEvent(PreviewStatus{State: PreviewDone})
}

// pumpCache reports cache snapshots whenever they change.
func (p *Previewer) pumpCache(b player.Backend, onEvent func(PreviewStatus), stop <-chan struct{}) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var last player.CacheState
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			state, ok := b.CacheState().Get()
			if !ok || state == last {
				continue
			}
			last = state
			onEvent(PreviewStatus{State: PreviewData, Cache: state})
		}
	}
}
