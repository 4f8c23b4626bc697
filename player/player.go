// Package player defines the media backend abstraction used by playback supervision.
// The primary implementation drives an external 'mpv' process through its JSON-IPC interface.
package player

import (
	"errors"
	"time"

	"github.com/samber/mo"
)

var (
	// ErrPlaybackTimeout is returned when playback did not begin within the requested timeout.
	ErrPlaybackTimeout = errors.New("playback did not start in time")

	// ErrShutdown is returned by blocking calls when the backend is terminated underneath them.
	ErrShutdown = errors.New("backend shut down")

	// ErrLoadFailed is returned when the backend reports that the target could not be opened.
	ErrLoadFailed = errors.New("media could not be loaded")

	// ErrUnreachable is returned by commands sent to a backend that is not running.
	ErrUnreachable = errors.New("backend unreachable")

	// ErrInvalidTarget is returned for URLs that are not safe to hand to the backend.
	ErrInvalidTarget = errors.New("invalid media target")
)

// Backend is a handle to one external media player instance.
//
// Property accessors never fail: a dead or shutting down backend
// reports Unknown, zero values or mo.None.
type Backend interface {
	// Play loads url and blocks until audio is actually flowing.
	// It fails with ErrPlaybackTimeout when that does not happen within timeout,
	// with ErrLoadFailed when the url cannot be opened and with ErrShutdown
	// when the backend is terminated meanwhile.
	Play(url string, timeout time.Duration) error

	// WaitForPlayback blocks until the current media ends.
	// It returns nil on a natural end and ErrShutdown when terminated.
	WaitForPlayback() error

	// SetPaused suspends or resumes output.
	SetPaused(paused bool) error

	// Paused reports the suspension state, Unknown when the backend cannot tell.
	Paused() Tristate

	// SetVolume sets the output volume in the range 0-100.
	SetVolume(volume int) error

	// Volume returns the output volume, 0 when unknown.
	Volume() int

	// CoreIdle reports whether the decoder is starved while not deliberately paused.
	CoreIdle() bool

	// CacheState returns a snapshot of the demuxer cache.
	CacheState() mo.Option[CacheState]

	// Metadata returns the tags of the current stream.
	Metadata() mo.Option[Metadata]

	// Alive reports whether the backend process is running and not terminated.
	Alive() bool

	// Terminate tears down the backend irrevocably. It is safe to call more than once.
	Terminate() error
}

// Factory creates a fresh, not yet started backend.
type Factory func() Backend

// Tristate is a boolean that may be unknown.
type Tristate int

const (
	Unknown Tristate = iota
	False
	True
)

// FromBool converts a known boolean.
func FromBool(b bool) Tristate {
	if b {
		return True
	}
	return False
}

// Known reports whether the value is either True or False.
func (t Tristate) Known() bool {
	return t != Unknown
}

func (t Tristate) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}
