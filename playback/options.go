package playback

import (
	"time"

	"github.com/listentui/listentui/constant"
	"github.com/listentui/listentui/key"
	"github.com/spf13/viper"
)

// Options configure a Supervisor.
type Options struct {
	StreamURL        string
	StartupTimeout   time.Duration
	Policy           Policy
	InactivityGrace  time.Duration
	PollInterval     time.Duration
	MetadataInterval time.Duration
	Volume           int
}

// OptionsFromConfig snapshots the supervision configuration.
func OptionsFromConfig() Options {
	return Options{
		StreamURL:        StreamURL(),
		StartupTimeout:   seconds(viper.GetInt(key.PlaybackStartupTimeout)),
		Policy:           PolicyFromConfig(),
		InactivityGrace:  seconds(viper.GetInt(key.PlaybackInactivityTimeout)),
		PollInterval:     seconds(viper.GetInt(key.PlaybackPollInterval)),
		MetadataInterval: time.Second,
		Volume:           viper.GetInt(key.PlayerVolume),
	}
}

// StreamURL resolves the audio stream of the configured station.
// An explicit stream.url wins over the station.
func StreamURL() string {
	if custom := viper.GetString(key.StreamURL); custom != "" {
		return custom
	}

	station, ok := constant.Stations[viper.GetString(key.StreamStation)]
	if !ok {
		station = constant.Stations[constant.StationJPop]
	}
	return station.Stream
}

func (o Options) withDefaults() Options {
	if o.StartupTimeout <= 0 {
		o.StartupTimeout = 2 * time.Minute
	}
	if o.Policy == (Policy{}) {
		o.Policy = DefaultPolicy
	}
	if o.InactivityGrace <= 0 {
		o.InactivityGrace = 5 * time.Second
	}
	if o.PollInterval <= 0 {
		o.PollInterval = 3 * time.Second
	}
	if o.MetadataInterval <= 0 {
		o.MetadataInterval = time.Second
	}
	return o
}
