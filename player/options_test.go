package player

import (
	"testing"

	"github.com/listentui/listentui/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestOptions(t *testing.T) {
	Convey("Given player options", t, func() {
		opts := Options{
			Codec:                   "vorbis",
			Cache:                   true,
			CacheSecs:               20,
			CachePauseInitial:       true,
			CachePauseWait:          3,
			LinearizeTimestamps:     true,
			DynamicRangeCompression: true,
			Volume:                  140,
			Extra:                   []string{"--audio-device=null"},
		}

		Convey("Args should describe an idle, audio only player", func() {
			args := opts.Args()
			So(args, ShouldContain, "--idle=yes")
			So(args, ShouldContain, "--no-video")
			So(args, ShouldContain, "--ad=vorbis")
			So(args, ShouldContain, "--cache=yes")
			So(args, ShouldContain, "--cache-secs=20")
			So(args, ShouldContain, "--cache-pause-wait=3")
			So(args, ShouldContain, "--demuxer-lavf-linearize-timestamps=yes")
			So(args, ShouldContain, "--af="+loudnessFilter)
			So(args[len(args)-1], ShouldEqual, "--audio-device=null")
		})

		Convey("The initial volume should be clamped", func() {
			So(opts.Args(), ShouldContain, "--volume=100")
			So(opts.WithVolume(-3).Args(), ShouldContain, "--volume=0")
		})

		Convey("Disabling the cache should drop cache tuning", func() {
			opts.Cache = false
			opts.DynamicRangeCompression = false
			args := opts.Args()
			So(args, ShouldContain, "--cache=no")
			So(args, ShouldNotContain, "--cache-secs=20")
			So(args, ShouldNotContain, "--af="+loudnessFilter)
		})
	})

	Convey("OptionsFromConfig should read the player keys", t, func() {
		viper.Set(key.PlayerCodec, "opus")
		viper.Set(key.PlayerVolume, 35)

		opts := OptionsFromConfig()
		So(opts.Binary, ShouldEqual, "mpv")
		So(opts.Codec, ShouldEqual, "opus")
		So(opts.Volume, ShouldEqual, 35)
	})
}
