package inline

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/listentui/listentui/listen"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

type SongPicker func([]*listen.Song) *listen.Song

// Library is the part of the API inline mode needs.
type Library interface {
	Search(ctx context.Context, term string, count int, favoritesOnly bool) ([]*listen.Song, error)
	RequestSong(ctx context.Context, id int) (*listen.Song, error)
}

type Options struct {
	Out       io.Writer
	Library   Library
	Query     string
	Limit     int
	Favorites bool
	Json      bool
	Picker    mo.Option[SongPicker]
	// Request queues the picked song. A picker is required.
	Request bool
	Format  listen.Format
}

// ParseSongPicker builds a picker. value is only used by the exact and index pickers.
func ParseSongPicker(kind, value string) (SongPicker, error) {
	switch kind {
	case "first":
		return func(songs []*listen.Song) *listen.Song {
			if len(songs) == 0 {
				return nil
			}
			return songs[0]
		}, nil
	case "last":
		return func(songs []*listen.Song) *listen.Song {
			if len(songs) == 0 {
				return nil
			}
			return songs[len(songs)-1]
		}, nil
	case "exact":
		return func(songs []*listen.Song) *listen.Song {
			song, _ := lo.Find(songs, func(s *listen.Song) bool {
				return strings.EqualFold(s.Title, value) || strings.EqualFold(s.TitleRomaji, value)
			})
			return song
		}, nil
	default:
		idx, err := strconv.ParseUint(kind, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("unknown song picker: %s", kind)
		}
		return func(songs []*listen.Song) *listen.Song {
			if len(songs) == 0 {
				return nil
			}
			return songs[min(int(idx), len(songs)-1)]
		}, nil
	}
}
