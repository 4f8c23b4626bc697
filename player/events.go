package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/listentui/listentui/log"
)

// Event is an asynchronous notification from mpv.
type Event struct {
	Name string `json:"event"`

	// Reason and FileError are only set for "end-file".
	Reason    string `json:"reason"`
	FileError string `json:"file_error"`
}

// end-file reasons
const (
	reasonEOF   = "eof"
	reasonStop  = "stop"
	reasonQuit  = "quit"
	reasonError = "error"
)

// EventListener reads mpv events from a dedicated persistent connection
// and delivers them on a channel.
type EventListener struct {
	socketPath string
	conn       net.Conn
	events     chan Event
	stopCh     chan struct{}
	done       chan struct{}
	mu         sync.Mutex
	listening  bool
}

// NewEventListener creates a new event listener for the given socket.
func NewEventListener(socketPath string) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		events:     make(chan Event, 16),
		stopCh:     make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Events returns the channel events are delivered on.
// Events are dropped when nobody keeps up with them.
func (el *EventListener) Events() <-chan Event {
	return el.events
}

// Start opens the connection and begins the read loop.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}
	el.conn = conn
	el.listening = true

	go el.readLoop()

	log.Debugf("mpv event listener started on %s", el.socketPath)
	return nil
}

// Stop terminates the listener and waits for the read loop to exit.
func (el *EventListener) Stop() {
	el.mu.Lock()
	if !el.listening {
		el.mu.Unlock()
		return
	}
	close(el.stopCh)
	el.conn.Close()
	el.listening = false
	el.mu.Unlock()

	<-el.done
}

func (el *EventListener) readLoop() {
	defer close(el.done)

	reader := bufio.NewReader(el.conn)
	var pending []byte

	for {
		select {
		case <-el.stopCh:
			return
		default:
		}

		// a deadline keeps the loop responsive to Stop
		if err := el.conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
			return
		}

		line, err := reader.ReadBytes('\n')
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				// keep the partial line for the next read
				pending = append(pending, line...)
				continue
			}
			select {
			case <-el.stopCh:
			default:
				log.Warnf("event listener read error: %v", err)
			}
			return
		}

		if len(pending) > 0 {
			line = append(pending, line...)
			pending = nil
		}
		el.processEvent(line)
	}
}

// processEvent parses and dispatches a single mpv event JSON line.
func (el *EventListener) processEvent(line []byte) {
	var event Event
	if err := json.Unmarshal(line, &event); err != nil || event.Name == "" {
		return
	}

	select {
	case el.events <- event:
	default:
		log.Warnf("dropping mpv event %q", event.Name)
	}
}
