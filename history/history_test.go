package history

import (
	"testing"
	"time"

	"github.com/listentui/listentui/filesystem"
	"github.com/listentui/listentui/key"
	"github.com/listentui/listentui/listen"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func heard(id int) listen.NowPlaying {
	return listen.NowPlaying{
		Song:      &listen.Song{ID: id, Title: "song"},
		Requester: &listen.Requester{DisplayName: "Jinta"},
	}
}

func ids(entries []*Entry) []int {
	return lo.Map(entries, func(e *Entry, _ int) int { return e.Song.ID })
}

func TestHistory(t *testing.T) {
	Convey("Given an empty history", t, func() {
		viper.Set(key.HistorySave, true)
		viper.Set(key.HistoryLimit, 3)
		So(Clear(), ShouldBeNil)

		at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

		Convey("When recording songs", func() {
			for i := 1; i <= 2; i++ {
				So(Record(heard(i), at.Add(time.Duration(i)*time.Minute)), ShouldBeNil)
			}

			Convey("Then they should be listed newest first", func() {
				entries, err := Get()
				So(err, ShouldBeNil)
				So(ids(entries), ShouldResemble, []int{2, 1})
				So(entries[0].Requester, ShouldEqual, "Jinta")
				So(entries[0].HeardAt, ShouldEqual, at.Add(2*time.Minute))
			})

			Convey("Then a song heard again should move to the top once", func() {
				So(Record(heard(1), at.Add(time.Hour)), ShouldBeNil)
				entries, _ := Get()
				So(ids(entries), ShouldResemble, []int{1, 2})
				So(entries[0].HeardAt, ShouldEqual, at.Add(time.Hour))
			})

			Convey("Then the oldest songs should be dropped past the limit", func() {
				for i := 3; i <= 5; i++ {
					So(Record(heard(i), at), ShouldBeNil)
				}
				entries, _ := Get()
				So(ids(entries), ShouldResemble, []int{5, 4, 3})
			})

			Convey("Then a removed song should be gone", func() {
				So(Remove(2), ShouldBeNil)
				entries, _ := Get()
				So(ids(entries), ShouldResemble, []int{1})
			})
		})

		Convey("Nothing should be stored when saving is off", func() {
			viper.Set(key.HistorySave, false)
			So(Record(heard(1), at), ShouldBeNil)
			entries, _ := Get()
			So(entries, ShouldBeEmpty)
		})

		Convey("An update without a song should be ignored", func() {
			So(Record(listen.NowPlaying{}, at), ShouldBeNil)
			entries, _ := Get()
			So(entries, ShouldBeEmpty)
		})
	})
}
