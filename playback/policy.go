package playback

import (
	"time"

	"github.com/listentui/listentui/key"
	"github.com/spf13/viper"
)

const timeoutStep = 5 * time.Second

// Policy bounds restart escalation.
type Policy struct {
	// SoftCap is the number of failed attempts answered with a soft restart.
	SoftCap int
	// HardCap is the number of failed attempts after which the stream is given up.
	HardCap int
	// BaseTimeout is the timeout of the first attempt, every failure adds five seconds.
	BaseTimeout time.Duration
	// TimeoutCap bounds the growth of the timeout.
	TimeoutCap time.Duration
}

// DefaultPolicy matches the configuration defaults.
var DefaultPolicy = Policy{
	SoftCap:     5,
	HardCap:     10,
	BaseTimeout: 20 * time.Second,
	TimeoutCap:  60 * time.Second,
}

// PolicyFromConfig reads the restart keys.
func PolicyFromConfig() Policy {
	return Policy{
		SoftCap:     viper.GetInt(key.PlaybackSoftCap),
		HardCap:     viper.GetInt(key.PlaybackHardCap),
		BaseTimeout: seconds(viper.GetInt(key.PlaybackRestartTimeout)),
		TimeoutCap:  seconds(viper.GetInt(key.PlaybackRestartTimeoutCap)),
	}
}

// Timeout returns min(base + 5s*retries, cap).
func (p Policy) Timeout(retries int) time.Duration {
	return min(p.BaseTimeout+time.Duration(retries)*timeoutStep, p.TimeoutCap)
}

// Hard reports whether the attempt following retries failures recreates the backend.
func (p Policy) Hard(retries int) bool {
	return retries >= p.SoftCap
}

// Exhausted reports whether no further attempt may be made.
func (p Policy) Exhausted(retries int) bool {
	return retries >= p.HardCap
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
