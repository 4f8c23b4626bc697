package playback

import (
	"sync"
	"time"

	"github.com/listentui/listentui/player"
	"github.com/samber/mo"
)

// fakeBackend is an in-memory player.Backend.
type fakeBackend struct {
	mu sync.Mutex

	alive      bool
	paused     bool
	coreIdle   bool
	volume     int
	terminated bool

	// playErr is returned by Play, playHook runs before it returns.
	playErr  error
	playHook func()
	plays    []time.Duration

	cache mo.Option[player.CacheState]
	meta  mo.Option[player.Metadata]

	finished chan error
	closed   chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		volume:   100,
		finished: make(chan error, 1),
		closed:   make(chan struct{}),
	}
}

func (f *fakeBackend) Play(url string, timeout time.Duration) error {
	f.mu.Lock()
	if f.terminated {
		f.mu.Unlock()
		return player.ErrShutdown
	}
	f.alive = true
	f.plays = append(f.plays, timeout)
	err, hook := f.playErr, f.playHook
	if err == nil {
		f.coreIdle = false
	}
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return err
}

func (f *fakeBackend) WaitForPlayback() error {
	select {
	case err := <-f.finished:
		return err
	case <-f.closed:
		return player.ErrShutdown
	}
}

func (f *fakeBackend) SetPaused(paused bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.alive {
		return player.ErrUnreachable
	}
	f.paused = paused
	return nil
}

func (f *fakeBackend) Paused() player.Tristate {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.alive {
		return player.Unknown
	}
	return player.FromBool(f.paused)
}

func (f *fakeBackend) SetVolume(volume int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.alive {
		return player.ErrUnreachable
	}
	f.volume = volume
	return nil
}

func (f *fakeBackend) Volume() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.volume
}

func (f *fakeBackend) CoreIdle() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.alive && (f.coreIdle || f.paused)
}

func (f *fakeBackend) CacheState() mo.Option[player.CacheState] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cache
}

func (f *fakeBackend) Metadata() mo.Option[player.Metadata] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.meta
}

func (f *fakeBackend) Alive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.alive && !f.terminated
}

func (f *fakeBackend) Terminate() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.terminated {
		f.terminated = true
		f.alive = false
		close(f.closed)
	}
	return nil
}

func (f *fakeBackend) set(fn func(*fakeBackend)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeBackend) playCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.plays)
}

func (f *fakeBackend) isTerminated() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.terminated
}

// fakeFactory records every backend it creates.
type fakeFactory struct {
	mu        sync.Mutex
	created   []*fakeBackend
	configure func(*fakeBackend)
}

func (ff *fakeFactory) create() player.Backend {
	b := newFakeBackend()

	ff.mu.Lock()
	defer ff.mu.Unlock()
	if ff.configure != nil {
		ff.configure(b)
	}
	ff.created = append(ff.created, b)
	return b
}

func (ff *fakeFactory) setConfigure(fn func(*fakeBackend)) {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	ff.configure = fn
}

func (ff *fakeFactory) count() int {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	return len(ff.created)
}

func (ff *fakeFactory) last() *fakeBackend {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	return ff.created[len(ff.created)-1]
}

// recorder collects events in emission order.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) sink(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *recorder) failedRestarts() []FailedRestart {
	var out []FailedRestart
	for _, e := range r.all() {
		if f, ok := e.(FailedRestart); ok {
			out = append(out, f)
		}
	}
	return out
}

func (r *recorder) count(match func(Event) bool) int {
	n := 0
	for _, e := range r.all() {
		if match(e) {
			n++
		}
	}
	return n
}

// instantClock fires immediately and remembers what was waited for.
// onWait runs before the wait completes.
type instantClock struct {
	mu     sync.Mutex
	waits  []time.Duration
	onWait func(time.Duration)
}

func (c *instantClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	c.waits = append(c.waits, d)
	hook := c.onWait
	c.mu.Unlock()

	if hook != nil {
		hook(d)
	}

	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

func (c *instantClock) recorded() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.waits...)
}

func testOptions() Options {
	return Options{
		StreamURL:        "https://listen.moe/stream",
		StartupTimeout:   time.Minute,
		Policy:           DefaultPolicy,
		InactivityGrace:  5 * time.Second,
		PollInterval:     3 * time.Second,
		MetadataInterval: time.Hour,
		Volume:           80,
	}
}

// startedSupervisor returns a playing supervisor without background goroutines.
func startedSupervisor() (*Supervisor, *fakeFactory, *recorder) {
	factory := &fakeFactory{}
	rec := &recorder{}
	sup := New(testOptions(), factory.create, rec.sink)
	if err := sup.start(); err != nil {
		panic(err)
	}
	return sup, factory, rec
}
