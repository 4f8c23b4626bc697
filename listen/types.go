package listen

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/listentui/listentui/constant"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Millis is a unix timestamp in milliseconds. The API sends it either as a number or as a string.
type Millis int64

// UnmarshalJSON accepts 1700000000000, "1700000000000" and null.
func (m *Millis) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		*m = 0
		return nil
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid millisecond timestamp %s: %w", data, err)
	}
	*m = Millis(n)
	return nil
}

// Time converts the timestamp, zero stays the zero time.
func (m Millis) Time() time.Time {
	if m == 0 {
		return time.Time{}
	}
	return time.UnixMilli(int64(m))
}

// Named is shared by every record having a native and a romanized name.
type Named struct {
	Name       string `json:"name"`
	NameRomaji string `json:"nameRomaji"`
}

// Format returns the preferred name, falling back to the other one.
func (n Named) Format(romajiFirst bool) string {
	if romajiFirst {
		return lo.CoalesceOrEmpty(n.NameRomaji, n.Name)
	}
	return lo.CoalesceOrEmpty(n.Name, n.NameRomaji)
}

// Social is an external link of an album, artist or source.
type Social struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ImageKind selects the CDN folder of an image.
type ImageKind string

const (
	ImageAlbum  ImageKind = "covers"
	ImageArtist ImageKind = "artists"
	ImageSource ImageKind = "source"
)

// ImageURL resolves an image name returned by the API.
func ImageURL(kind ImageKind, name string) mo.Option[string] {
	if name == "" {
		return mo.None[string]()
	}
	return mo.Some(fmt.Sprintf("%s/%s/%s", constant.CDN, kind, name))
}

type Character struct {
	ID int `json:"id"`
	Named
}

func (c *Character) Link() string {
	return fmt.Sprintf("%s/characters/%d", constant.Site, c.ID)
}

type Artist struct {
	ID int `json:"id"`
	Named
	Image             string       `json:"image"`
	Characters        []*Character `json:"characters"`
	Links             []Social     `json:"links"`
	Albums            []*Album     `json:"albums"`
	SongsWithoutAlbum []*Song      `json:"songsWithoutAlbum"`
}

func (a *Artist) Link() string {
	return fmt.Sprintf("%s/artists/%d", constant.Site, a.ID)
}

func (a *Artist) ImageURL() mo.Option[string] {
	return ImageURL(ImageArtist, a.Image)
}

// SongCount counts the songs on all albums plus the loose ones.
func (a *Artist) SongCount() int {
	total := len(a.SongsWithoutAlbum)
	for _, album := range a.Albums {
		total += len(album.Songs)
	}
	return total
}

type Album struct {
	ID int `json:"id"`
	Named
	Image   string    `json:"image"`
	Songs   []*Song   `json:"songs"`
	Artists []*Artist `json:"artists"`
	Links   []Social  `json:"links"`
}

func (a *Album) Link() string {
	return fmt.Sprintf("%s/albums/%d", constant.Site, a.ID)
}

func (a *Album) ImageURL() mo.Option[string] {
	return ImageURL(ImageAlbum, a.Image)
}

// Source is the anime, game or other media a song belongs to.
type Source struct {
	ID int `json:"id"`
	Named
	Image             string   `json:"image"`
	Description       string   `json:"description"`
	Links             []Social `json:"links"`
	Songs             []*Song  `json:"songs"`
	SongsWithoutAlbum []*Song  `json:"songsWithoutAlbum"`
}

func (s *Source) Link() string {
	return fmt.Sprintf("%s/sources/%d", constant.Site, s.ID)
}

func (s *Source) ImageURL() mo.Option[string] {
	return ImageURL(ImageSource, s.Image)
}

// Requester is a listener who requested a song, uploaders share the shape.
type Requester struct {
	UUID        string `json:"uuid"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

func (r *Requester) Link() string {
	return fmt.Sprintf("%s/u/%s", constant.Site, r.Username)
}

// Event is a special broadcast running on the station.
type Event struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Image    string `json:"image"`
	Presence string `json:"presence"`
}

// Counter wraps the {count} objects of the user record.
type Counter struct {
	Count int `json:"count"`
}

// FeedKind is the activity of a system feed entry.
type FeedKind int

const (
	FeedCommented FeedKind = iota + 1
	FeedFavorited
	FeedUploaded
	FeedApprovedUpload
)

func (k FeedKind) String() string {
	switch k {
	case FeedFavorited:
		return "Favorited"
	case FeedUploaded:
		return "Uploaded"
	case FeedCommented:
		return "Commented"
	case FeedApprovedUpload:
		return "Approved upload"
	default:
		return "Activity"
	}
}

// UnmarshalJSON accepts the kind as a number or a numeric string.
func (k *FeedKind) UnmarshalJSON(data []byte) error {
	n, err := strconv.Atoi(strings.Trim(string(data), `"`))
	if err != nil {
		return fmt.Errorf("invalid feed type %s: %w", data, err)
	}
	*k = FeedKind(n)
	return nil
}

type SystemFeed struct {
	Kind      FeedKind `json:"type"`
	CreatedAt Millis   `json:"createdAt"`
	Song      *Song    `json:"song"`
}

type User struct {
	UUID        string        `json:"uuid"`
	Username    string        `json:"username"`
	DisplayName string        `json:"displayName"`
	Bio         string        `json:"bio"`
	Favorites   Counter       `json:"favorites"`
	Uploads     Counter       `json:"uploads"`
	Requests    Counter       `json:"requests"`
	Feed        []*SystemFeed `json:"systemFeed"`
}

func (u *User) Link() string {
	return fmt.Sprintf("%s/u/%s", constant.Site, u.Username)
}

// PlayStatistic is an entry of the station's play history.
type PlayStatistic struct {
	CreatedAt Millis     `json:"createdAt"`
	Song      *Song      `json:"song"`
	Requester *Requester `json:"requester"`
}

// NowPlaying is the payload of a track update on the gateway.
type NowPlaying struct {
	Song       *Song      `json:"song"`
	Requester  *Requester `json:"requester"`
	Event      *Event     `json:"event"`
	StartTime  time.Time  `json:"startTime"`
	LastPlayed []*Song    `json:"lastPlayed"`
	Listeners  int        `json:"listeners"`
}

// TimeEnd is when the song is expected to end, zero when its duration is unknown.
func (n *NowPlaying) TimeEnd() time.Time {
	if n.Song == nil || n.Song.Duration <= 0 {
		return time.Time{}
	}
	return n.StartTime.Add(n.Song.DurationTime())
}

// Elapsed returns how far the song is at now, bounded by its duration.
func (n *NowPlaying) Elapsed(now time.Time) time.Duration {
	if n.StartTime.IsZero() || now.Before(n.StartTime) {
		return 0
	}
	elapsed := now.Sub(n.StartTime)
	if n.Song != nil && n.Song.Duration > 0 {
		elapsed = min(elapsed, n.Song.DurationTime())
	}
	return elapsed
}

