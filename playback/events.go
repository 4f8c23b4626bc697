package playback

import (
	"fmt"
	"time"

	"github.com/listentui/listentui/player"
)

// Event is a lifecycle notification posted by the supervisor and its monitor.
// Events from one source are delivered in emission order.
type Event interface {
	event()
}

// Sink receives events. It must not block, posting to a UI loop is the intended use.
type Sink func(Event)

// Started is posted once the stream is playing for the first time.
type Started struct{}

// SuccessfulRestart is posted when a restart brought the stream back.
type SuccessfulRestart struct{}

// FailedRestart is posted after a restart attempt timed out.
type FailedRestart struct {
	RetryNo int
	// Timeout the next attempt will wait for.
	Timeout time.Duration
	SoftCap int
	HardCap int
}

func (f FailedRestart) String() string {
	return fmt.Sprintf("restart %d/%d failed, next timeout %s", f.RetryNo, f.HardCap, f.Timeout)
}

// Fail is posted when the stream cannot be recovered. Nothing is retried afterwards.
type Fail struct {
	Err error
}

// NewSong is posted when the stream announces different metadata.
type NewSong struct {
	Metadata player.Metadata
}

// UnderRun is posted when the stream is first seen starving.
type UnderRun struct{}

func (Started) event()           {}
func (SuccessfulRestart) event() {}
func (FailedRestart) event()     {}
func (Fail) event()              {}
func (NewSong) event()           {}
func (UnderRun) event()          {}
