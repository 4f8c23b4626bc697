package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// fakeMPV answers JSON-IPC requests on a unix socket.
// Every reply is preceded by an unrelated event to make sure clients skip it.
func fakeMPV(t *testing.T, reply func(command []any) (any, string)) string {
	t.Helper()

	socket := filepath.Join(t.TempDir(), "mpv.sock")
	listener, err := net.Listen("unix", socket)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = listener.Close() })

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				scanner := bufio.NewScanner(conn)
				for scanner.Scan() {
					var cmd ipcCommand
					if err := json.Unmarshal(scanner.Bytes(), &cmd); err != nil {
						return
					}
					data, status := reply(cmd.Command)
					_, _ = fmt.Fprintln(conn, `{"event":"audio-reconfig"}`)
					out, _ := json.Marshal(map[string]any{
						"data":       data,
						"error":      status,
						"request_id": cmd.RequestID,
					})
					_, _ = conn.Write(append(out, '\n'))
				}
			}(conn)
		}
	}()

	return socket
}

func TestIPC(t *testing.T) {
	Convey("Given a fake mpv socket", t, func() {
		socket := fakeMPV(t, func(command []any) (any, string) {
			if len(command) == 2 && command[1] == "volume" {
				return 42.0, "success"
			}
			return nil, "property unavailable"
		})

		Convey("A reply should be matched by request id", func() {
			data, err := doSendCommand(socket, 7, []any{"get_property", "volume"})
			So(err, ShouldBeNil)
			So(data, ShouldEqual, 42.0)
		})

		Convey("An mpv error should be reported as such", func() {
			_, err := doSendCommand(socket, 8, []any{"get_property", "nope"})
			So(err, ShouldNotBeNil)
			_, ok := err.(*mpvError)
			So(ok, ShouldBeTrue)
		})

		Convey("A missing socket should fail to connect", func() {
			_, err := doSendCommand(filepath.Join(os.TempDir(), "missing.sock"), 1, []any{"quit"})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestMPVNotStarted(t *testing.T) {
	Convey("Given an MPV backend that was never started", t, func() {
		mpv := NewMPV(Options{Binary: "mpv"})

		Convey("It should not be alive", func() {
			So(mpv.Alive(), ShouldBeFalse)
		})

		Convey("Property accessors should report unknown values", func() {
			So(mpv.Paused(), ShouldEqual, Unknown)
			So(mpv.Volume(), ShouldEqual, 0)
			So(mpv.CoreIdle(), ShouldBeFalse)
			So(mpv.CacheState().IsAbsent(), ShouldBeTrue)
			So(mpv.Metadata().IsAbsent(), ShouldBeTrue)
		})

		Convey("Commands should fail as unreachable", func() {
			So(errors.Is(mpv.SetPaused(true), ErrUnreachable), ShouldBeTrue)
			So(errors.Is(mpv.SetVolume(10), ErrUnreachable), ShouldBeTrue)
		})

		Convey("WaitForPlayback should report shutdown", func() {
			So(mpv.WaitForPlayback(), ShouldEqual, ErrShutdown)
		})

		Convey("Terminate should be idempotent and block later plays", func() {
			So(mpv.Terminate(), ShouldBeNil)
			So(mpv.Terminate(), ShouldBeNil)
			So(mpv.Play("https://listen.moe/stream", time.Second), ShouldEqual, ErrShutdown)
		})

		Convey("Play should reject unsafe targets before spawning anything", func() {
			err := mpv.Play("--script=evil.lua", time.Second)
			So(errors.Is(err, ErrInvalidTarget), ShouldBeTrue)
			So(mpv.Socket(), ShouldBeEmpty)
		})
	})
}

func TestSanitizeMediaTarget(t *testing.T) {
	Convey("sanitizeMediaTarget", t, func() {
		Convey("Should accept http and https URLs", func() {
			for _, link := range []string{"https://listen.moe/stream", " http://cdn.listen.moe/snippets/a.mp3 "} {
				_, err := sanitizeMediaTarget(link)
				So(err, ShouldBeNil)
			}
		})

		Convey("Should reject flags, control characters and other schemes", func() {
			for _, link := range []string{"", "-v", "https://a\nb", "file:///etc/passwd", "ytdl://x"} {
				_, err := sanitizeMediaTarget(link)
				So(err, ShouldNotBeNil)
			}
		})
	})
}

func TestTristate(t *testing.T) {
	Convey("Tristate", t, func() {
		So(FromBool(true), ShouldEqual, True)
		So(FromBool(false), ShouldEqual, False)
		So(Unknown.Known(), ShouldBeFalse)
		So(False.Known(), ShouldBeTrue)
		So(Unknown.String(), ShouldEqual, "unknown")
	})
}
