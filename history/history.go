// Package history keeps the songs heard on the radio, newest first.
package history

import (
	"sync"
	"time"

	"github.com/listentui/listentui/filesystem"
	"github.com/listentui/listentui/key"
	"github.com/listentui/listentui/listen"
	"github.com/listentui/listentui/where"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// cacher is the on-disk store of the entries.
var cacher = gache.New[[]*Entry](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// mu serializes the read-modify-write cycles of Record and Remove.
var mu sync.Mutex

// Get returns the stored entries, newest first.
func Get() ([]*Entry, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return []*Entry{}, nil
	}
	return cached, nil
}

// Record stores the song of np as heard at the given time. A song heard again moves to the top.
// Nothing is stored when history.save is off or np carries no song.
func Record(np listen.NowPlaying, at time.Time) error {
	if np.Song == nil || !viper.GetBool(key.HistorySave) {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	saved, err := Get()
	if err != nil {
		return err
	}

	entries := append([]*Entry{newEntry(np, at)}, lo.Reject(saved, func(e *Entry, _ int) bool {
		return e.Song == nil || e.Song.ID == np.Song.ID
	})...)

	if limit := viper.GetInt(key.HistoryLimit); limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	return cacher.Set(entries)
}

// Remove deletes the entry of the song with the given id.
func Remove(songID int) error {
	mu.Lock()
	defer mu.Unlock()

	saved, err := Get()
	if err != nil {
		return err
	}

	return cacher.Set(lo.Reject(saved, func(e *Entry, _ int) bool {
		return e.Song != nil && e.Song.ID == songID
	}))
}

// Clear deletes every entry.
func Clear() error {
	mu.Lock()
	defer mu.Unlock()

	return cacher.Set([]*Entry{})
}
