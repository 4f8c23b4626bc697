package util

import (
	"testing"
	"time"

	"github.com/listentui/listentui/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "song", "songs"), ShouldEqual, "1 song")
		So(Quantify(2, "song", "songs"), ShouldEqual, "2 songs")
		So(Quantify(0, "song", "songs"), ShouldEqual, "0 songs")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("paused"), ShouldEqual, "Paused")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestClamp(t *testing.T) {
	Convey("Clamp", t, func() {
		So(Clamp(120, 0, 100), ShouldEqual, 100)
		So(Clamp(-5, 0, 100), ShouldEqual, 0)
		So(Clamp(42, 0, 100), ShouldEqual, 42)
		So(Clamp(1.5, 0.0, 1.0), ShouldEqual, 1.0)
	})

	Convey("Ratio", t, func() {
		So(Ratio(30, 120), ShouldEqual, 0.25)
		So(Ratio(200, 120), ShouldEqual, 1.0)
		So(Ratio(5, 0), ShouldEqual, 0.0)
		So(Ratio(time.Minute, 4*time.Minute), ShouldEqual, 0.25)
	})
}

func TestFormatDuration(t *testing.T) {
	Convey("FormatDuration", t, func() {
		So(FormatDuration(0), ShouldEqual, "0:00")
		So(FormatDuration(4*time.Minute+5*time.Second), ShouldEqual, "4:05")
		So(FormatDuration(time.Hour+2*time.Minute+3*time.Second), ShouldEqual, "1:02:03")
		So(FormatDuration(-time.Second), ShouldEqual, "0:00")
		So(FormatDuration(1499*time.Millisecond), ShouldEqual, "0:01")
	})
}

func TestDelete(t *testing.T) {
	Convey("Given a file and a directory", t, func() {
		filesystem.SetMemMapFs()
		fs := filesystem.API()
		So(fs.MkdirAll("/data/nested", 0o755), ShouldBeNil)
		So(fs.WriteFile("/data/nested/history.json", []byte("[]"), 0o644), ShouldBeNil)
		So(fs.WriteFile("/file.json", []byte("{}"), 0o644), ShouldBeNil)

		Convey("A file should be removed", func() {
			So(Delete("/file.json"), ShouldBeNil)
			exists, _ := fs.Exists("/file.json")
			So(exists, ShouldBeFalse)
		})

		Convey("A directory should be removed recursively", func() {
			So(Delete("/data"), ShouldBeNil)
			exists, _ := fs.Exists("/data/nested/history.json")
			So(exists, ShouldBeFalse)
		})

		Convey("A missing path should be an error", func() {
			So(Delete("/missing"), ShouldNotBeNil)
		})
	})
}

func TestStack(t *testing.T) {
	Convey("Stack", t, func() {
		var s Stack[int]
		s.Push(1)
		s.Push(2)
		So(s.Len(), ShouldEqual, 2)
		So(s.Peek(), ShouldEqual, 2)
		So(s.Pop(), ShouldEqual, 2)
		So(s.Pop(), ShouldEqual, 1)
		So(s.Pop(), ShouldEqual, 0)
		s.Push(3)
		s.Clear()
		So(s.Len(), ShouldEqual, 0)
	})
}
