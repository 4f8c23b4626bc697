package player

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/listentui/listentui/log"
	"github.com/listentui/listentui/where"
	"github.com/samber/mo"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	readyPollInterval = 100 * time.Millisecond
	quitGracePeriod   = 3 * time.Second
)

// MPV implements Backend on top of an idle mpv process controlled over JSON-IPC.
// The process is spawned lazily by the first Play.
type MPV struct {
	opts       Options
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when mpv process exits
	closed     chan struct{} // closed by Terminate
	events     *EventListener

	mu        sync.Mutex // Protects socket writes
	lifecycle sync.Mutex // Protects process start and teardown
	requestID atomic.Int64
	running   atomic.Bool
	closeOnce sync.Once
}

// NewMPV creates a new MPV backend (does not start the process).
func NewMPV(opts Options) *MPV {
	return &MPV{
		opts:   opts,
		exited: make(chan struct{}),
		closed: make(chan struct{}),
	}
}

// NewFactory returns a Factory producing MPV backends with the given options.
func NewFactory(opts Options) Factory {
	return func() Backend {
		return NewMPV(opts)
	}
}

func (m *MPV) terminated() bool {
	select {
	case <-m.closed:
		return true
	default:
		return false
	}
}

// start spawns the mpv process once and waits for its IPC socket.
func (m *MPV) start() error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	if m.terminated() {
		return ErrShutdown
	}

	if m.cmd != nil {
		if !m.running.Load() {
			return fmt.Errorf("%w: mpv exited", ErrShutdown)
		}
		return nil
	}

	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Errorf("generate socket name: %w", err)
	}
	m.socketPath = filepath.Join(where.Temp(), fmt.Sprintf("mpv-%x.sock", randomBytes))

	binary := m.opts.Binary
	if binary == "" {
		binary = "mpv"
	}

	args := append(m.opts.Args(), "--input-ipc-server="+m.socketPath)
	m.cmd = exec.Command(binary, args...)

	// Detach from parent process group so terminal signals do not reach mpv.
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	// Background goroutine to reap the process and prevent zombies
	go func() {
		_ = m.cmd.Wait()
		m.running.Store(false)
		close(m.exited)
	}()

	if err := m.waitForSocket(); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(m.cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	m.events = NewEventListener(m.socketPath)
	if err := m.events.Start(); err != nil {
		_ = killProcess(m.cmd)
		return err
	}

	m.running.Store(true)
	log.Debugf("mpv started with pid %d", m.cmd.Process.Pid)
	return nil
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// Play loads the given URL, replacing whatever is playing, and waits until audio flows.
func (m *MPV) Play(rawURL string, timeout time.Duration) error {
	target, err := sanitizeMediaTarget(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}

	if err := m.start(); err != nil {
		return err
	}

	m.drainEvents()

	if _, err := m.command("loadfile", target, "replace"); err != nil {
		return err
	}

	return m.waitUntilPlaying(timeout)
}

// waitUntilPlaying polls core-idle until the decoder is fed.
func (m *MPV) waitUntilPlaying(timeout time.Duration) error {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	ticker := time.NewTicker(readyPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.closed:
			return ErrShutdown
		case <-m.exited:
			return ErrShutdown
		case <-deadline.C:
			return ErrPlaybackTimeout
		case ev := <-m.events.Events():
			if ev.Name == "end-file" && ev.Reason == reasonError {
				return fmt.Errorf("%w: %s", ErrLoadFailed, ev.FileError)
			}
		case <-ticker.C:
			idle, err := m.boolProperty("core-idle")
			if err == nil && !idle {
				return nil
			}
		}
	}
}

// WaitForPlayback blocks until the current file ends.
func (m *MPV) WaitForPlayback() error {
	if !m.running.Load() {
		return ErrShutdown
	}

	for {
		select {
		case <-m.closed:
			return ErrShutdown
		case <-m.exited:
			return ErrShutdown
		case ev := <-m.events.Events():
			if ev.Name != "end-file" {
				continue
			}
			switch ev.Reason {
			case reasonEOF:
				return nil
			case reasonError:
				return fmt.Errorf("%w: %s", ErrLoadFailed, ev.FileError)
			case reasonQuit:
				return ErrShutdown
			case reasonStop:
				// a replaced file also ends with "stop"
				if m.terminated() {
					return ErrShutdown
				}
			}
		}
	}
}

func (m *MPV) drainEvents() {
	for {
		select {
		case <-m.events.Events():
		default:
			return
		}
	}
}

// SetPaused suspends or resumes output.
func (m *MPV) SetPaused(paused bool) error {
	_, err := m.command("set_property", "pause", paused)
	return err
}

// Paused reports the pause property, Unknown when mpv cannot be asked.
func (m *MPV) Paused() Tristate {
	paused, err := m.boolProperty("pause")
	if err != nil {
		return Unknown
	}
	return FromBool(paused)
}

// SetVolume sets the volume, clamped to 0-100.
func (m *MPV) SetVolume(volume int) error {
	_, err := m.command("set_property", "volume", float64(clampVolume(volume)))
	return err
}

// Volume returns the rounded volume, 0 when unknown.
func (m *MPV) Volume() int {
	volume, err := m.floatProperty("volume")
	if err != nil {
		return 0
	}
	return int(math.Round(volume))
}

// CoreIdle reports mpv's core-idle property, false when unknown.
func (m *MPV) CoreIdle() bool {
	idle, err := m.boolProperty("core-idle")
	return err == nil && idle
}

// CacheState returns the demuxer-cache-state property.
func (m *MPV) CacheState() mo.Option[CacheState] {
	data, err := m.command("get_property", "demuxer-cache-state")
	if err != nil {
		return mo.None[CacheState]()
	}
	return mo.TupleToOption(parseCacheState(data))
}

// Metadata returns the metadata property.
func (m *MPV) Metadata() mo.Option[Metadata] {
	data, err := m.command("get_property", "metadata")
	if err != nil {
		return mo.None[Metadata]()
	}
	return mo.TupleToOption(parseMetadata(data))
}

// Alive reports whether mpv is running and was not terminated.
func (m *MPV) Alive() bool {
	return m.running.Load() && !m.terminated()
}

// Terminate shuts down the mpv process and cleans up resources.
func (m *MPV) Terminate() error {
	m.closeOnce.Do(func() { close(m.closed) })

	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	if m.cmd == nil || m.cmd.Process == nil {
		return nil
	}

	if m.running.Load() {
		// Try graceful quit via IPC
		_, _ = m.sendCommand([]any{"quit"})
	}

	select {
	case <-m.exited:
	case <-time.After(quitGracePeriod):
		_ = killProcess(m.cmd)
		<-m.exited
	}

	if m.events != nil {
		m.events.Stop()
	}

	if err := os.Remove(m.socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("remove mpv socket: %v", err)
	}

	return nil
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

// command sends an IPC command, failing fast when mpv is not running.
func (m *MPV) command(args ...any) (any, error) {
	if !m.running.Load() {
		return nil, ErrUnreachable
	}

	data, err := m.sendCommand(args)
	if err != nil {
		var mpvErr *mpvError
		if errors.As(err, &mpvErr) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	return data, nil
}

func (m *MPV) boolProperty(name string) (bool, error) {
	data, err := m.command("get_property", name)
	if err != nil {
		return false, err
	}

	val, ok := data.(bool)
	if !ok {
		return false, fmt.Errorf("property %s: expected bool, got %T", name, data)
	}
	return val, nil
}

// floatProperty is a helper to retrieve a float64 mpv property via IPC.
func (m *MPV) floatProperty(name string) (float64, error) {
	data, err := m.command("get_property", name)
	if err != nil {
		return 0, err
	}

	if data == nil {
		return 0, fmt.Errorf("property %s: nil response", name)
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}

	return val, nil
}

// sanitizeMediaTarget validates that a URL is safe to pass to mpv.
// Only http(s) URLs are accepted and they may never look like a flag.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	u, err := url.Parse(l)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return l, nil
	default:
		return "", fmt.Errorf("unsupported URL scheme: %q", u.Scheme)
	}
}
