package inline

import (
	"encoding/json"

	"github.com/listentui/listentui/listen"
	"github.com/samber/lo"
)

type Song struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	Artists  []string `json:"artists"`
	Source   string   `json:"source,omitempty"`
	Album    string   `json:"album,omitempty"`
	Duration int      `json:"duration" jsonschema:"description=Length in seconds, 0 when unknown"`
	Link     string   `json:"link"`
	Snippet  string   `json:"snippet,omitempty"`
}

type Output struct {
	Query     string  `json:"query"`
	Requested bool    `json:"requested"`
	Result    []*Song `json:"result"`
}

func newSong(s *listen.Song, f listen.Format) *Song {
	return &Song{
		ID:       s.ID,
		Title:    s.FormatTitle(f),
		Artists:  lo.Compact(s.ArtistNames(f)),
		Source:   s.FormatSource(f),
		Album:    s.FormatAlbum(f),
		Duration: s.Duration,
		Link:     s.Link(),
		Snippet:  s.SnippetURL().OrEmpty(),
	}
}

func asJson(songs []*listen.Song, query string, requested bool, f listen.Format) ([]byte, error) {
	return json.Marshal(&Output{
		Query:     query,
		Requested: requested,
		Result:    lo.Map(songs, func(s *listen.Song, _ int) *Song { return newSong(s, f) }),
	})
}
