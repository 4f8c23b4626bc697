// Package log writes diagnostics to a daily file under where.Logs().
// Nothing is written unless logs.write is set.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/listentui/listentui/filesystem"
	"github.com/listentui/listentui/key"
	"github.com/listentui/listentui/where"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Log files older than this are removed on Setup.
const retention = 7 * 24 * time.Hour

const dateLayout = "2006-01-02"

var std = silent()

func silent() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}

// Setup opens today's log file. It has to run after the configuration is loaded.
func Setup() error {
	if !viper.GetBool(key.LogsWrite) {
		std = silent()
		return nil
	}

	dir := where.Logs()
	prune(dir, time.Now())

	path := filepath.Join(dir, time.Now().Format(dateLayout)+".log")
	f, err := filesystem.API().OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	l := logrus.New()
	l.SetOutput(f)
	if viper.GetBool(key.LogsJson) {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(viper.GetString(key.LogsLevel))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	std = l
	return nil
}

// prune removes the log files of days past the retention.
func prune(dir string, now time.Time) {
	entries, err := filesystem.API().ReadDir(dir)
	if err != nil {
		return
	}

	for _, e := range entries {
		day, err := time.Parse(dateLayout, strings.TrimSuffix(e.Name(), ".log"))
		if err != nil || now.Sub(day) <= retention {
			continue
		}
		_ = filesystem.API().Remove(filepath.Join(dir, e.Name()))
	}
}

// Component returns an entry tagged with the emitting component, e.g. "supervisor" or "gateway".
// Entries keep writing where the logger pointed when they were created.
func Component(name string) *logrus.Entry {
	return std.WithField("component", name)
}

func Error(args ...any)                 { std.Error(args...) }
func Errorf(format string, args ...any) { std.Errorf(format, args...) }
func Warn(args ...any)                  { std.Warn(args...) }
func Warnf(format string, args ...any)  { std.Warnf(format, args...) }
func Info(args ...any)                  { std.Info(args...) }
func Infof(format string, args ...any)  { std.Infof(format, args...) }
func Debug(args ...any)                 { std.Debug(args...) }
func Debugf(format string, args ...any) { std.Debugf(format, args...) }
func Trace(args ...any)                 { std.Trace(args...) }
func Tracef(format string, args ...any) { std.Tracef(format, args...) }
