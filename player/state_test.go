package player

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseCacheState(t *testing.T) {
	Convey("Given a demuxer-cache-state reply", t, func() {
		data := map[string]any{
			"cache-end":      30.5,
			"cache-duration": 12.0,
			"fw-bytes":       2048.0,
			"total-bytes":    4096.0,
			"reader-pts":     15.25,
			"seekable-ranges": []any{
				map[string]any{"start": 0.0, "end": 30.5},
			},
		}

		Convey("All fields should be decoded", func() {
			state, ok := parseCacheState(data)
			So(ok, ShouldBeTrue)
			So(state.CacheEnd, ShouldEqual, 30.5)
			So(state.CacheDuration, ShouldEqual, 12.0)
			So(state.FwBytes, ShouldEqual, 2048.0)
			So(state.TotalBytes, ShouldEqual, 4096.0)
			So(state.ReaderPts, ShouldEqual, 15.25)
			So(state.SeekableEnd, ShouldEqual, 30.5)
			So(state.Progress(), ShouldAlmostEqual, 0.5, 0.001)
		})

		Convey("Missing fields should default to -1", func() {
			state, ok := parseCacheState(map[string]any{"cache-duration": 1.0})
			So(ok, ShouldBeTrue)
			So(state.CacheEnd, ShouldEqual, -1)
			So(state.SeekableEnd, ShouldEqual, -1)
			So(state.Progress(), ShouldEqual, 0)
		})

		Convey("Anything but an object should be rejected", func() {
			_, ok := parseCacheState(nil)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestParseMetadata(t *testing.T) {
	Convey("Given a metadata reply with mixed case tags", t, func() {
		meta, ok := parseMetadata(map[string]any{
			"TITLE":     "Renai Circulation",
			"artist":    "Kana Hanazawa",
			"icy-genre": "Anime",
			"icy-name":  "LISTEN.moe",
		})

		Convey("Tags should be normalized", func() {
			So(ok, ShouldBeTrue)
			So(meta.Title, ShouldEqual, "Renai Circulation")
			So(meta.Genre, ShouldEqual, "Anime")
			So(meta.StreamTitle, ShouldEqual, "LISTEN.moe")
			So(meta.String(), ShouldEqual, "Kana Hanazawa - Renai Circulation")
		})

		Convey("Equal should compare every tag", func() {
			other := meta
			So(meta.Equal(other), ShouldBeTrue)
			other.Title = "Platinum Disco"
			So(meta.Equal(other), ShouldBeFalse)
			So(Metadata{}.IsEmpty(), ShouldBeTrue)
		})
	})
}
