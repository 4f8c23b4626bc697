package playback

import (
	"context"
	"time"
)

// clock abstracts waiting for testability.
type clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// sleep waits for d and reports false when ctx ended first.
func sleep(ctx context.Context, c clock, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-c.After(d):
		return true
	}
}
