// Package util holds small helpers shared by the interface and the commands.
package util

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/listentui/listentui/filesystem"
	"golang.org/x/exp/constraints"
	"golang.org/x/term"
)

// Quantify labels a count, as in "1 song" or "3 songs".
func Quantify(count int, singular, plural string) string {
	label := plural
	if count == 1 {
		label = singular
	}
	return fmt.Sprintf("%d %s", count, label)
}

// Capitalize uppercases the first letter of an ASCII word.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// TerminalSize is the size of the terminal on stdout.
func TerminalSize() (width, height int, err error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// Clamp bounds v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	return min(max(v, lo), hi)
}

// Ratio returns part/whole bounded to [0, 1], zero when whole is not positive.
func Ratio[T constraints.Integer | constraints.Float](part, whole T) float64 {
	if whole <= 0 {
		return 0
	}
	return Clamp(float64(part)/float64(whole), 0, 1)
}

// FormatDuration renders d as m:ss, or h:mm:ss from one hour on.
func FormatDuration(d time.Duration) string {
	d = max(d, 0).Round(time.Second)
	h := int(d / time.Hour)
	m := int(d%time.Hour) / int(time.Minute)
	s := int(d%time.Minute) / int(time.Second)

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// PrintErasable shows msg until the returned func is called.
// Nothing is printed when stdout is not a terminal, so piped output stays clean.
func PrintErasable(msg string) (erase func()) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return func() {}
	}

	fmt.Fprint(os.Stdout, "\r"+msg)
	return func() {
		fmt.Fprint(os.Stdout, "\r"+strings.Repeat(" ", len(msg))+"\r")
	}
}

// Delete removes a file or a whole directory.
func Delete(path string) error {
	fs := filesystem.API()
	stat, err := fs.Stat(path)
	if err != nil {
		return err
	}

	if stat.IsDir() {
		return fs.RemoveAll(path)
	}
	return fs.Remove(path)
}
