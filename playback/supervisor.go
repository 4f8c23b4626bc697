// Package playback supervises the main radio stream: it owns the media backend,
// restarts it when it stalls and lends the audio device to song previews.
package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/listentui/listentui/log"
	"github.com/listentui/listentui/player"
	"github.com/sirupsen/logrus"
)

var (
	// ErrRestartInProgress is returned when a restart is requested while another one runs.
	ErrRestartInProgress = errors.New("restart already in progress")

	// ErrHardFailure is carried by Fail once the restart budget is exhausted.
	ErrHardFailure = errors.New("stream could not be recovered")

	// ErrNotStarted is returned by operations on a supervisor that is not running.
	ErrNotStarted = errors.New("supervisor not started")
)

// State of the main stream.
type State int32

const (
	Stopped State = iota
	Starting
	Playing
	Paused
	Restarting
	Failed
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Starting:
		return "starting"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Restarting:
		return "restarting"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Snapshot is a consistent-enough view of the supervisor for rendering.
type Snapshot struct {
	State   State
	Retries int
	Volume  int
	Muted   bool
	Paused  player.Tristate
}

// Supervisor owns the single backend playing the main stream.
//
// State-changing sequences (start, play, pause, restarts) are serialized by mu.
// Restarts are additionally guarded by a try-lock so that overlapping requests
// are dropped instead of queued. Property reads go straight to the backend.
type Supervisor struct {
	opts    Options
	factory player.Factory
	sink    Sink
	log     *logrus.Entry
	clock   clock
	monitor *Monitor

	mu         sync.Mutex
	restarting atomic.Bool
	previewing atomic.Bool
	closing    atomic.Bool
	state      atomic.Int32

	backendMu sync.RWMutex
	backend   player.Backend

	volMu       sync.Mutex
	volume      int
	muted       bool
	mutedVolume int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a stopped supervisor. Backends are created with factory.
func New(opts Options, factory player.Factory, sink Sink) *Supervisor {
	opts = opts.withDefaults()

	s := &Supervisor{
		opts:    opts,
		factory: factory,
		sink:    sink,
		log:     log.Component("supervisor"),
		clock:   realClock{},
		volume:  min(max(opts.Volume, 0), 100),
	}
	s.monitor = newMonitor(s, opts.Policy, opts.InactivityGrace, opts.PollInterval)
	return s
}

// Start creates the backend and blocks until the stream plays or the startup timeout elapses.
// A failed startup is reported with Fail and is not retried.
// On success the health monitor runs until ctx is done or Close is called.
func (s *Supervisor) Start(ctx context.Context) error {
	if err := s.start(); err != nil {
		return err
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.monitor.Run(ctx)
	}()
	go func() {
		defer s.wg.Done()
		s.watchMetadata(ctx)
	}()

	return nil
}

func (s *Supervisor) start() error {
	s.mu.Lock()

	if st := s.State(); st != Stopped {
		s.mu.Unlock()
		return fmt.Errorf("cannot start a %s supervisor", st)
	}

	s.setState(Starting)
	b := s.factory()
	if !s.setBackend(b) {
		s.setState(Stopped)
		s.mu.Unlock()
		return ErrNotStarted
	}

	s.log.Infof("starting stream %s", s.opts.StreamURL)
	if err := b.Play(s.opts.StreamURL, s.opts.StartupTimeout); err != nil {
		_ = b.Terminate()
		s.setState(Failed)
		s.mu.Unlock()

		err = fmt.Errorf("start stream: %w", err)
		s.log.Error(err)
		s.emit(Fail{Err: err})
		return err
	}

	s.setState(Playing)
	s.mu.Unlock()

	s.emit(Started{})
	return nil
}

// Close stops the monitor and terminates the backend.
func (s *Supervisor) Close() error {
	s.closing.Store(true)
	if s.cancel != nil {
		s.cancel()
	}

	// terminating first unblocks a restart that waits for playback
	var err error
	if b := s.Backend(); b != nil {
		err = b.Terminate()
	}

	s.wg.Wait()

	if b := s.Backend(); b != nil {
		err = errors.Join(err, b.Terminate())
	}

	if s.State() != Failed {
		s.setState(Stopped)
	}
	return err
}

// Backend returns the current backend, nil before Start.
func (s *Supervisor) Backend() player.Backend {
	s.backendMu.RLock()
	defer s.backendMu.RUnlock()
	return s.backend
}

// setBackend installs b. Once Close has begun b is terminated on the spot
// and setBackend reports false, so Close never misses a backend.
func (s *Supervisor) setBackend(b player.Backend) bool {
	s.backendMu.Lock()
	defer s.backendMu.Unlock()

	s.backend = b
	if s.closing.Load() {
		_ = b.Terminate()
		return false
	}
	return true
}

// State returns the current state.
func (s *Supervisor) State() State {
	return State(s.state.Load())
}

func (s *Supervisor) setState(st State) {
	if old := State(s.state.Swap(int32(st))); old != st {
		s.log.Debugf("state %s -> %s", old, st)
	}
}

// Restarting reports whether a restart is in flight.
func (s *Supervisor) Restarting() bool {
	return s.restarting.Load()
}

// SetPreviewActive marks that a preview borrowed the audio device.
// The health monitor treats this like a user pause.
func (s *Supervisor) SetPreviewActive(active bool) {
	s.previewing.Store(active)
}

// PreviewActive reports whether a preview is borrowing the audio device.
func (s *Supervisor) PreviewActive() bool {
	return s.previewing.Load()
}

// Snapshot returns the supervisor state for rendering.
func (s *Supervisor) Snapshot() Snapshot {
	snap := Snapshot{
		State:   s.State(),
		Retries: s.monitor.Retries(),
		Paused:  s.Paused(),
	}

	s.volMu.Lock()
	snap.Volume = s.volume
	snap.Muted = s.muted
	s.volMu.Unlock()

	return snap
}

// Paused reports the backend pause state.
func (s *Supervisor) Paused() player.Tristate {
	b := s.Backend()
	if b == nil {
		return player.Unknown
	}
	return b.Paused()
}

// usableLocked rejects operations on a supervisor that is not running.
func (s *Supervisor) usableLocked() error {
	switch {
	case s.State() == Failed:
		return ErrHardFailure
	case s.closing.Load(), s.State() == Stopped, s.Backend() == nil:
		return ErrNotStarted
	default:
		return nil
	}
}

// Restart re-plays the stream on the current backend, keeping its pause state.
// It returns ErrRestartInProgress without doing anything when a restart is already running.
func (s *Supervisor) Restart(timeout time.Duration) error {
	return s.restart(timeout, s.softRestartLocked)
}

// HardRestart replaces the backend and plays the stream on the new one.
// It returns ErrRestartInProgress without doing anything when a restart is already running.
func (s *Supervisor) HardRestart(timeout time.Duration) error {
	return s.restart(timeout, s.hardRestartLocked)
}

func (s *Supervisor) restart(timeout time.Duration, fn func(time.Duration) error) error {
	if !s.restarting.CompareAndSwap(false, true) {
		return ErrRestartInProgress
	}
	defer s.restarting.Store(false)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.usableLocked(); err != nil {
		return err
	}
	return fn(timeout)
}

func (s *Supervisor) softRestartLocked(timeout time.Duration) error {
	b := s.Backend()
	prior := b.Paused()
	s.setState(Restarting)

	s.log.Infof("soft restart, timeout %s", timeout)
	if prior == player.True {
		// a paused player never leaves core-idle
		_ = b.SetPaused(false)
	}

	err := b.Play(s.opts.StreamURL, timeout)
	s.settleLocked(b, prior)

	if err != nil {
		return fmt.Errorf("soft restart: %w", err)
	}
	return nil
}

func (s *Supervisor) hardRestartLocked(timeout time.Duration) error {
	old := s.Backend()
	prior := old.Paused()
	s.setState(Restarting)

	s.log.Infof("hard restart, timeout %s", timeout)
	if err := old.Terminate(); err != nil {
		s.log.Warnf("terminate backend: %v", err)
	}

	b := s.factory()
	if !s.setBackend(b) {
		return ErrNotStarted
	}

	err := b.Play(s.opts.StreamURL, timeout)
	if err == nil {
		s.volMu.Lock()
		volume := s.volume
		s.volMu.Unlock()
		if verr := b.SetVolume(volume); verr != nil {
			s.log.Warnf("restore volume: %v", verr)
		}
	}
	s.settleLocked(b, prior)

	if err != nil {
		return fmt.Errorf("hard restart: %w", err)
	}
	return nil
}

// settleLocked puts the backend back into its pre-restart pause state.
func (s *Supervisor) settleLocked(b player.Backend, prior player.Tristate) {
	if prior == player.True {
		if err := b.SetPaused(true); err != nil {
			s.log.Warnf("restore pause: %v", err)
		}
		s.setState(Paused)
		return
	}
	s.setState(Playing)
}

// SafeRestart performs a soft restart and only logs failures.
func (s *Supervisor) SafeRestart() {
	if err := s.Restart(s.opts.Policy.TimeoutCap); err != nil {
		s.log.Warnf("restart: %v", err)
	}
}

// SafeHardRestart performs a hard restart and only logs failures.
func (s *Supervisor) SafeHardRestart() {
	if err := s.HardRestart(s.opts.Policy.TimeoutCap); err != nil {
		s.log.Warnf("hard restart: %v", err)
	}
}

// Play resumes the stream. A paused live stream is re-attached with a soft restart
// rather than merely unpaused, since it moved on while paused.
func (s *Supervisor) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playLocked()
}

func (s *Supervisor) playLocked() error {
	if err := s.usableLocked(); err != nil {
		return err
	}

	b := s.Backend()
	if b.Paused() != player.True && s.State() != Paused {
		return nil
	}

	if err := b.SetPaused(false); err != nil {
		return fmt.Errorf("resume: %w", err)
	}

	if !s.restarting.CompareAndSwap(false, true) {
		// the restart in flight re-attaches the stream
		s.setState(Playing)
		return nil
	}
	defer s.restarting.Store(false)

	return s.softRestartLocked(s.opts.Policy.BaseTimeout)
}

// Pause suspends the stream.
func (s *Supervisor) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pauseLocked()
}

func (s *Supervisor) pauseLocked() error {
	if err := s.usableLocked(); err != nil {
		return err
	}

	if err := s.Backend().SetPaused(true); err != nil {
		return fmt.Errorf("pause: %w", err)
	}
	s.setState(Paused)
	return nil
}

// PauseForPreview pauses a stream that is not paused yet, after any restart in flight
// has settled. It reports whether it paused the stream, the caller resumes exactly then.
func (s *Supervisor) PauseForPreview() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State() == Paused || s.Paused() == player.True {
		return false, nil
	}
	if err := s.pauseLocked(); err != nil {
		return false, err
	}
	return true, nil
}

// PlayPause toggles between Play and Pause.
func (s *Supervisor) PlayPause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State() == Paused || s.Paused() == player.True {
		return s.playLocked()
	}
	return s.pauseLocked()
}

// Volume returns the volume last requested, 0 while muted.
func (s *Supervisor) Volume() int {
	s.volMu.Lock()
	defer s.volMu.Unlock()
	return s.volume
}

// Muted reports whether the stream is muted.
func (s *Supervisor) Muted() bool {
	s.volMu.Lock()
	defer s.volMu.Unlock()
	return s.muted
}

// SetVolume sets the volume, clamped to 0-100. It clears a mute.
func (s *Supervisor) SetVolume(volume int) error {
	s.volMu.Lock()
	defer s.volMu.Unlock()
	return s.setVolumeLocked(volume)
}

// RaiseVolume adds amount to the volume, starting from the pre-mute volume when muted.
func (s *Supervisor) RaiseVolume(amount int) error {
	s.volMu.Lock()
	defer s.volMu.Unlock()
	return s.setVolumeLocked(s.baseVolumeLocked() + amount)
}

// LowerVolume subtracts amount from the volume, starting from the pre-mute volume when muted.
func (s *Supervisor) LowerVolume(amount int) error {
	s.volMu.Lock()
	defer s.volMu.Unlock()
	return s.setVolumeLocked(s.baseVolumeLocked() - amount)
}

func (s *Supervisor) baseVolumeLocked() int {
	if s.muted {
		return s.mutedVolume
	}
	return s.volume
}

func (s *Supervisor) setVolumeLocked(volume int) error {
	s.volume = min(max(volume, 0), 100)
	s.muted = false
	return s.applyVolume(s.volume)
}

// Mute remembers the volume and silences the stream.
func (s *Supervisor) Mute() error {
	s.volMu.Lock()
	defer s.volMu.Unlock()
	return s.muteLocked()
}

func (s *Supervisor) muteLocked() error {
	if s.muted {
		return nil
	}
	s.mutedVolume = s.volume
	s.volume = 0
	s.muted = true
	return s.applyVolume(0)
}

// Unmute restores the volume from before Mute. A remembered volume of 0 becomes 1
// so that unmuting is audible.
func (s *Supervisor) Unmute() error {
	s.volMu.Lock()
	defer s.volMu.Unlock()
	return s.unmuteLocked()
}

func (s *Supervisor) unmuteLocked() error {
	if !s.muted {
		return nil
	}
	volume := s.mutedVolume
	if volume == 0 {
		volume = 1
	}
	return s.setVolumeLocked(volume)
}

// ToggleMute flips between Mute and Unmute.
func (s *Supervisor) ToggleMute() error {
	s.volMu.Lock()
	defer s.volMu.Unlock()

	if s.muted {
		return s.unmuteLocked()
	}
	return s.muteLocked()
}

func (s *Supervisor) applyVolume(volume int) error {
	b := s.Backend()
	if b == nil {
		return nil
	}
	if err := b.SetVolume(volume); err != nil {
		return fmt.Errorf("set volume: %w", err)
	}
	return nil
}

// fail moves to the terminal state and reports err.
func (s *Supervisor) fail(err error) {
	s.setState(Failed)
	s.log.Errorf("giving up: %v", err)
	s.emit(Fail{Err: err})
}

func (s *Supervisor) emit(e Event) {
	if s.sink != nil {
		s.sink(e)
	}
}

// watchMetadata polls the stream tags and posts NewSong when they change.
func (s *Supervisor) watchMetadata(ctx context.Context) {
	var last player.Metadata

	for sleep(ctx, s.clock, s.opts.MetadataInterval) {
		b := s.Backend()
		if b == nil || !b.Alive() {
			continue
		}

		meta, ok := b.Metadata().Get()
		if !ok || meta.IsEmpty() || meta.Equal(last) {
			continue
		}

		last = meta
		s.log.Debugf("new song: %s", meta)
		s.emit(NewSong{Metadata: meta})
	}
}
