package listen

import (
	"fmt"
	"strings"
	"time"

	"github.com/listentui/listentui/constant"
	"github.com/listentui/listentui/key"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

type Song struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	TitleRomaji string       `json:"titleRomaji"`
	Sources     []*Source    `json:"sources"`
	Artists     []*Artist    `json:"artists"`
	Characters  []*Character `json:"characters"`
	Albums      []*Album     `json:"albums"`
	Uploader    *Requester   `json:"uploader"`
	Duration    int          `json:"duration"`
	Played      int          `json:"played"`
	Snippet     string       `json:"snippet"`
	LastPlayed  Millis       `json:"lastPlayed"`
}

// Format controls how names are rendered.
type Format struct {
	RomajiFirst    bool
	ShowCharacters bool
}

// FormatFromConfig reads the display settings.
func FormatFromConfig() Format {
	return Format{
		RomajiFirst:    viper.GetBool(key.DisplayRomajiFirst),
		ShowCharacters: viper.GetBool(key.DisplayShowCharacters),
	}
}

func (s *Song) Link() string {
	return fmt.Sprintf("%s/songs/%d", constant.Site, s.ID)
}

// DurationTime returns the song length, zero when unknown.
func (s *Song) DurationTime() time.Duration {
	return time.Duration(s.Duration) * time.Second
}

// SnippetURL returns the url of the song preview, if the song has one.
func (s *Song) SnippetURL() mo.Option[string] {
	if s.Snippet == "" {
		return mo.None[string]()
	}
	if strings.HasPrefix(s.Snippet, "http://") || strings.HasPrefix(s.Snippet, "https://") {
		return mo.Some(s.Snippet)
	}
	return mo.Some(constant.SnippetCDN + strings.TrimPrefix(s.Snippet, "/"))
}

// Source returns the first source of the song.
func (s *Song) Source() mo.Option[*Source] {
	if len(s.Sources) == 0 {
		return mo.None[*Source]()
	}
	return mo.Some(s.Sources[0])
}

// Album returns the first album of the song.
func (s *Song) Album() mo.Option[*Album] {
	if len(s.Albums) == 0 {
		return mo.None[*Album]()
	}
	return mo.Some(s.Albums[0])
}

func (s *Song) FormatTitle(f Format) string {
	if f.RomajiFirst {
		return lo.CoalesceOrEmpty(s.TitleRomaji, s.Title)
	}
	return lo.CoalesceOrEmpty(s.Title, s.TitleRomaji)
}

func (s *Song) FormatSource(f Format) string {
	source, ok := s.Source().Get()
	if !ok {
		return ""
	}
	return source.Format(f.RomajiFirst)
}

func (s *Song) FormatAlbum(f Format) string {
	album, ok := s.Album().Get()
	if !ok {
		return ""
	}
	return album.Format(f.RomajiFirst)
}

// ArtistNames lists the artists. When characters are shown an artist voicing the
// song's first character renders as "Character (CV: Artist)".
func (s *Song) ArtistNames(f Format) []string {
	names := make([]string, 0, len(s.Artists))

	for _, artist := range s.Artists {
		name := artist.Format(f.RomajiFirst)
		if name == "" {
			continue
		}

		if f.ShowCharacters {
			if character, ok := s.voicedBy(artist).Get(); ok {
				if cname := character.Format(f.RomajiFirst); cname != "" {
					names = append(names, fmt.Sprintf("%s (CV: %s)", cname, name))
					continue
				}
			}
		}

		names = append(names, name)
	}

	return names
}

func (s *Song) FormatArtists(f Format) string {
	return strings.Join(s.ArtistNames(f), ", ")
}

func (s *Song) voicedBy(artist *Artist) mo.Option[*Character] {
	if len(s.Characters) == 0 {
		return mo.None[*Character]()
	}
	first := s.Characters[0].ID
	character, ok := lo.Find(artist.Characters, func(c *Character) bool { return c.ID == first })
	if !ok {
		return mo.None[*Character]()
	}
	return mo.Some(character)
}

// AlbumImage returns the cover of the first album.
func (s *Song) AlbumImage() mo.Option[string] {
	album, ok := s.Album().Get()
	if !ok {
		return mo.None[string]()
	}
	return album.ImageURL()
}

// ArtistImage returns the picture of the first artist.
func (s *Song) ArtistImage() mo.Option[string] {
	if len(s.Artists) == 0 {
		return mo.None[string]()
	}
	return s.Artists[0].ImageURL()
}

// SourceImage returns the picture of the source.
func (s *Song) SourceImage() mo.Option[string] {
	source, ok := s.Source().Get()
	if !ok {
		return mo.None[string]()
	}
	return source.ImageURL()
}

func (s *Song) String() string {
	title := s.FormatTitle(Format{})
	if artists := s.FormatArtists(Format{}); artists != "" {
		return artists + " - " + title
	}
	return title
}
