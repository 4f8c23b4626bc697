package log

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/listentui/listentui/filesystem"
	"github.com/listentui/listentui/key"
	"github.com/listentui/listentui/where"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Given logging is disabled", t, func() {
		viper.Set(key.LogsWrite, false)

		Convey("Setup should not create any file", func() {
			So(Setup(), ShouldBeNil)
			files, _ := filesystem.API().ReadDir(where.Logs())
			So(files, ShouldBeEmpty)
		})

		Convey("Component should return a silent entry", func() {
			So(Setup(), ShouldBeNil)
			entry := Component("supervisor")
			So(entry, ShouldNotBeNil)
			So(func() { entry.Info("ignored") }, ShouldNotPanic)
		})
	})

	Convey("Given logging is enabled", t, func() {
		viper.Set(key.LogsWrite, true)
		viper.Set(key.LogsLevel, "not-a-level")

		Convey("Setup should write to today's log file", func() {
			So(Setup(), ShouldBeNil)
			Component("gateway").Info("connected")

			path := filepath.Join(where.Logs(), time.Now().Format(dateLayout)+".log")
			raw, err := filesystem.API().ReadFile(path)
			So(err, ShouldBeNil)
			So(string(raw), ShouldContainSubstring, "component=gateway")
			So(string(raw), ShouldContainSubstring, "connected")
		})

		Reset(func() {
			viper.Set(key.LogsWrite, false)
			_ = Setup()
			_ = filesystem.API().RemoveAll(where.Logs())
		})
	})
}

func TestPrune(t *testing.T) {
	Convey("Given logs of several days", t, func() {
		dir := filepath.Join(where.Config(), "prune-test")
		now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

		for _, name := range []string{"2024-03-20.log", "2024-03-14.log", "2024-03-01.log", "notes.txt"} {
			So(filesystem.API().WriteFile(filepath.Join(dir, name), nil, 0o644), ShouldBeNil)
		}

		Convey("Only logs past the retention should be removed", func() {
			prune(dir, now)

			files, err := filesystem.API().ReadDir(dir)
			So(err, ShouldBeNil)
			names := make([]string, 0, len(files))
			for _, f := range files {
				names = append(names, f.Name())
			}
			So(names, ShouldResemble, []string{"2024-03-14.log", "2024-03-20.log", "notes.txt"})
		})

		Reset(func() {
			_ = filesystem.API().RemoveAll(dir)
		})
	})
}
