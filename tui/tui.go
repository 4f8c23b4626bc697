// Package tui is the terminal interface of the radio.
package tui

import (
	"context"
	"fmt"

	"github.com/listentui/listentui/config"
	"github.com/listentui/listentui/key"
	"github.com/listentui/listentui/listen"
	"github.com/listentui/listentui/log"
	"github.com/listentui/listentui/playback"
	tea "github.com/charmbracelet/bubbletea"
)

// Radio is the supervised main stream.
type Radio interface {
	Start(ctx context.Context) error
	Snapshot() playback.Snapshot
	PlayPause() error
	RaiseVolume(amount int) error
	LowerVolume(amount int) error
	ToggleMute() error
	SafeRestart()
	SafeHardRestart()
}

// Previewer plays song snippets.
type Previewer interface {
	Preview(url string, onEvent func(playback.PreviewStatus))
	Terminate()
	Active() bool
}

// Library is the part of the API used by the interface.
type Library interface {
	LoggedIn() bool
	Search(ctx context.Context, term string, count int, favoritesOnly bool) ([]*listen.Song, error)
	CheckFavorite(ctx context.Context, ids ...int) (map[int]bool, error)
	FavoriteSong(ctx context.Context, id int) error
	RequestSong(ctx context.Context, id int) (*listen.Song, error)
}

// Options wire the interface to the radio.
type Options struct {
	Radio     Radio
	Previewer Previewer
	Library   Library
	// Relay must be the sink of the radio, the previews and the gateway.
	Relay *Relay
	// Station is shown in the header.
	Station string
}

// Run starts the radio and blocks until the user quits or playback fails for good.
// The volume is saved on the way out.
func Run(ctx context.Context, options Options) error {
	bubble := newBubble(ctx, options)

	_, err := tea.NewProgram(bubble, tea.WithAltScreen(), tea.WithContext(ctx)).Run()

	bubble.preview.Terminate()
	if snap := bubble.radio.Snapshot(); !snap.Muted && snap.State != playback.Stopped {
		if perr := config.Persist(key.PlayerVolume, snap.Volume); perr != nil {
			log.Warnf("save volume: %v", perr)
		}
	}

	if err != nil {
		return err
	}
	if bubble.fatal != nil {
		return fmt.Errorf("playback stopped: %w", bubble.fatal)
	}
	return nil
}
