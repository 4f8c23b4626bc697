package player

import (
	"fmt"
	"strconv"

	"github.com/listentui/listentui/key"
	"github.com/spf13/viper"
)

// loudnessFilter evens out the perceived volume between songs.
const loudnessFilter = "acompressor=ratio=4,loudnorm=I=-16:LRA=11:TP=-1.5"

// Options shape the command line of a spawned player process.
type Options struct {
	Binary                  string
	Codec                   string
	Cache                   bool
	CacheSecs               int
	CachePauseInitial       bool
	CachePauseWait          int
	LinearizeTimestamps     bool
	DynamicRangeCompression bool
	Volume                  int
	Extra                   []string
}

// OptionsFromConfig snapshots the player configuration.
func OptionsFromConfig() Options {
	return Options{
		Binary:                  "mpv",
		Codec:                   viper.GetString(key.PlayerCodec),
		Cache:                   viper.GetBool(key.PlayerCache),
		CacheSecs:               viper.GetInt(key.PlayerCacheSecs),
		CachePauseInitial:       viper.GetBool(key.PlayerCachePauseInitial),
		CachePauseWait:          viper.GetInt(key.PlayerCachePauseWait),
		LinearizeTimestamps:     viper.GetBool(key.PlayerLinearizeTimestamps),
		DynamicRangeCompression: viper.GetBool(key.PlayerDynamicRangeCompress),
		Volume:                  viper.GetInt(key.PlayerVolume),
		Extra:                   viper.GetStringSlice(key.PlayerExtraArgs),
	}
}

// WithVolume returns a copy with the initial volume replaced.
func (o Options) WithVolume(volume int) Options {
	o.Volume = volume
	return o
}

// Args builds the player arguments, excluding the IPC socket.
func (o Options) Args() []string {
	args := []string{
		"--idle=yes",
		"--no-video",
		"--no-terminal",
		"--really-quiet",
	}

	if o.Codec != "" {
		args = append(args, "--ad="+o.Codec)
	}

	args = append(args, "--cache="+yesNo(o.Cache))
	if o.Cache {
		args = append(args,
			"--cache-secs="+strconv.Itoa(o.CacheSecs),
			"--cache-pause-initial="+yesNo(o.CachePauseInitial),
			"--cache-pause-wait="+strconv.Itoa(o.CachePauseWait),
		)
	}

	if o.LinearizeTimestamps {
		args = append(args, "--demuxer-lavf-linearize-timestamps=yes")
	}

	if o.DynamicRangeCompression {
		args = append(args, "--af="+loudnessFilter)
	}

	args = append(args, fmt.Sprintf("--volume=%d", clampVolume(o.Volume)))

	return append(args, o.Extra...)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func clampVolume(v int) int {
	return min(max(v, 0), 100)
}
