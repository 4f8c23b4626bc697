package playback

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/listentui/listentui/log"
	"github.com/listentui/listentui/player"
	"github.com/sirupsen/logrus"
)

// idleRecheck is how long the monitor backs off while it has nothing to judge.
const idleRecheck = time.Second

// Monitor watches the main stream and escalates restarts when it stalls.
// All bookkeeping is mutated by the goroutine running Run only.
type Monitor struct {
	sup    *Supervisor
	policy Policy
	grace  time.Duration
	poll   time.Duration
	clock  clock
	log    *logrus.Entry

	retries  atomic.Int32
	underrun bool
}

func newMonitor(sup *Supervisor, policy Policy, grace, poll time.Duration) *Monitor {
	return &Monitor{
		sup:    sup,
		policy: policy,
		grace:  grace,
		poll:   poll,
		clock:  realClock{},
		log:    log.Component("monitor"),
	}
}

// Retries returns the number of consecutive failed restarts.
func (m *Monitor) Retries() int {
	return int(m.retries.Load())
}

// Run polls until ctx is done or the stream is given up.
func (m *Monitor) Run(ctx context.Context) {
	m.log.Debug("health monitor started")
	defer m.log.Debug("health monitor stopped")

	for m.step(ctx) {
	}
}

// step performs one pass of the decision table and reports whether to continue.
func (m *Monitor) step(ctx context.Context) bool {
	b := m.sup.Backend()

	switch {
	case b == nil || !b.Alive():
		// expected while a hard restart swaps the backend
		return sleep(ctx, m.clock, idleRecheck)

	case m.sup.Restarting():
		return sleep(ctx, m.clock, idleRecheck)

	case m.sup.PreviewActive():
		return sleep(ctx, m.clock, idleRecheck)

	case stalled(b):
		if !m.underrun {
			m.underrun = true
			m.log.Info("stream stalled")
			m.sup.emit(UnderRun{})
		}

		if !sleep(ctx, m.clock, m.grace) {
			return false
		}

		b = m.sup.Backend()
		if b == nil || !stalled(b) || m.sup.PreviewActive() {
			return true
		}
		return m.dispatch(ctx)

	default:
		m.underrun = false
		if m.retries.Load() > 0 && b.Paused() == player.False {
			m.log.Info("stream recovered on its own")
			m.retries.Store(0)
			m.sup.emit(SuccessfulRestart{})
		}
		return sleep(ctx, m.clock, m.poll)
	}
}

// stalled reports a starved decoder that nobody paused on purpose.
func stalled(b player.Backend) bool {
	return b.Alive() && b.CoreIdle() && b.Paused() == player.False
}

// dispatch runs one restart attempt and accounts for its outcome.
func (m *Monitor) dispatch(ctx context.Context) bool {
	retries := m.Retries()
	if m.policy.Exhausted(retries) {
		m.sup.fail(ErrHardFailure)
		return false
	}

	timeout := m.policy.Timeout(retries)

	var err error
	if m.policy.Hard(retries) {
		m.log.Infof("attempt %d: hard restart, timeout %s", retries+1, timeout)
		err = m.sup.HardRestart(timeout)
	} else {
		m.log.Infof("attempt %d: soft restart, timeout %s", retries+1, timeout)
		err = m.sup.Restart(timeout)
	}

	if ctx.Err() != nil {
		return false
	}

	switch {
	case err == nil:
		m.retries.Store(0)
		m.underrun = false
		m.sup.emit(SuccessfulRestart{})
		return true

	case errors.Is(err, ErrRestartInProgress):
		return true

	case errors.Is(err, ErrNotStarted), errors.Is(err, ErrHardFailure):
		return false
	}

	retries = int(m.retries.Add(1))
	m.log.Warnf("restart attempt %d failed: %v", retries, err)
	m.sup.emit(FailedRestart{
		RetryNo: retries,
		Timeout: m.policy.Timeout(retries),
		SoftCap: m.policy.SoftCap,
		HardCap: m.policy.HardCap,
	})

	if m.policy.Exhausted(retries) {
		m.sup.fail(ErrHardFailure)
		return false
	}
	return true
}
