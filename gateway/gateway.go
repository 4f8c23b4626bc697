// Package gateway follows the radio's now-playing websocket.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/listentui/listentui/constant"
	"github.com/listentui/listentui/listen"
	"github.com/listentui/listentui/log"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/websocket"
)

// Gateway opcodes.
const (
	OpWelcome      = 0
	OpPlayback     = 1
	OpHeartbeat    = 9
	OpHeartbeatAck = 10
)

// Playback event types carrying a NowPlaying payload.
const (
	TrackUpdate        = "TRACK_UPDATE"
	TrackUpdateRequest = "TRACK_UPDATE_REQUEST"
)

type message struct {
	Op int             `json:"op"`
	T  string          `json:"t,omitempty"`
	D  json.RawMessage `json:"d,omitempty"`
}

type welcome struct {
	Heartbeat int `json:"heartbeat"`
}

// Options configure a Feed.
type Options struct {
	// URL of the gateway.
	URL string
	// MinBackoff and MaxBackoff bound the delay between reconnects.
	MinBackoff time.Duration
	MaxBackoff time.Duration
}

func (o Options) withDefaults() Options {
	if o.URL == "" {
		o.URL = constant.Stations[constant.StationJPop].Gateway
	}
	if o.MinBackoff <= 0 {
		o.MinBackoff = time.Second
	}
	if o.MaxBackoff < o.MinBackoff {
		o.MaxBackoff = max(30*time.Second, o.MinBackoff)
	}
	return o
}

// Feed keeps a connection to the gateway and reports every song change to its sink.
type Feed struct {
	opts Options
	sink func(listen.NowPlaying)
	log  *logrus.Entry

	mu   sync.RWMutex
	last mo.Option[listen.NowPlaying]
}

// New creates a feed. sink is called from the goroutine running Run.
func New(opts Options, sink func(listen.NowPlaying)) *Feed {
	return &Feed{
		opts: opts.withDefaults(),
		sink: sink,
		log:  log.Component("gateway"),
	}
}

// Current returns the latest update received.
func (f *Feed) Current() mo.Option[listen.NowPlaying] {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.last
}

// Run connects and reconnects until ctx is done, then returns ctx.Err().
func (f *Feed) Run(ctx context.Context) error {
	backoff := f.opts.MinBackoff

	for {
		received, err := f.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if received {
			backoff = f.opts.MinBackoff
		}
		f.log.Warnf("connection lost, retrying in %s: %v", backoff, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, f.opts.MaxBackoff)
	}
}

// session serves one connection. It reports whether any update arrived on it.
func (f *Feed) session(ctx context.Context) (bool, error) {
	config, err := websocket.NewConfig(f.opts.URL, constant.Site)
	if err != nil {
		return false, err
	}
	config.Header.Set("User-Agent", constant.UserAgent)

	conn, err := config.DialContext(ctx)
	if err != nil {
		return false, fmt.Errorf("dial %s: %w", f.opts.URL, err)
	}
	f.log.Infof("connected to %s", f.opts.URL)

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		_ = conn.Close()
		wg.Wait()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		_ = conn.Close()
	}()

	var (
		received      bool
		stopKeepalive = func() {}
	)
	defer func() { stopKeepalive() }()

	for {
		var msg message
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return received, ctx.Err()
			}
			return received, err
		}

		switch msg.Op {
		case OpWelcome:
			var w welcome
			if err := json.Unmarshal(msg.D, &w); err != nil || w.Heartbeat <= 0 {
				f.log.Warnf("welcome without heartbeat: %s", msg.D)
				continue
			}

			stopKeepalive()
			kctx, kcancel := context.WithCancel(ctx)
			stopKeepalive = kcancel
			wg.Add(1)
			go func() {
				defer wg.Done()
				f.keepalive(kctx, conn, time.Duration(w.Heartbeat)*time.Millisecond)
			}()

		case OpPlayback:
			if msg.T != TrackUpdate && msg.T != TrackUpdateRequest {
				continue
			}

			var np listen.NowPlaying
			if err := json.Unmarshal(msg.D, &np); err != nil {
				f.log.Warnf("malformed track update: %v", err)
				continue
			}

			received = true
			f.mu.Lock()
			f.last = mo.Some(np)
			f.mu.Unlock()

			if np.Song != nil {
				f.log.Infof("now playing %s", np.Song)
			}
			if f.sink != nil {
				f.sink(np)
			}

		case OpHeartbeatAck:
			f.log.Trace("heartbeat acknowledged")
		}
	}
}

func (f *Feed) keepalive(ctx context.Context, conn *websocket.Conn, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := websocket.JSON.Send(conn, message{Op: OpHeartbeat}); err != nil {
				f.log.Debugf("heartbeat: %v", err)
				return
			}
		}
	}
}
