// Package presence mirrors the current song into the chat client's rich presence.
package presence

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/hugolgst/rich-go/client"
	"github.com/listentui/listentui/constant"
	"github.com/listentui/listentui/key"
	"github.com/listentui/listentui/listen"
	"github.com/listentui/listentui/log"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Limits of the status fields.
const (
	minLength   = 2
	maxLength   = 128
	placeholder = " ♪"
)

// Options configure what the status shows.
type Options struct {
	AppID string

	// Templates of the status lines. ${name} placeholders are replaced with song fields.
	Detail    string
	State     string
	LargeText string
	SmallText string

	ShowTimeLeft bool
	// Fallback is the image key used when the song has no cover.
	Fallback string
	Format   listen.Format
}

// OptionsFromConfig reads the presence settings.
func OptionsFromConfig() Options {
	return Options{
		AppID:        viper.GetString(key.PresenceAppID),
		Detail:       viper.GetString(key.PresenceDetail),
		State:        viper.GetString(key.PresenceState),
		LargeText:    viper.GetString(key.PresenceLargeText),
		SmallText:    viper.GetString(key.PresenceSmallText),
		ShowTimeLeft: viper.GetBool(key.PresenceShowTimeLeft),
		Fallback:     viper.GetString(key.PresenceFallback),
		Format:       listen.FormatFromConfig(),
	}
}

type rpc interface {
	Login(appID string) error
	Logout()
	SetActivity(activity client.Activity) error
}

type richGo struct{}

func (richGo) Login(appID string) error                  { return client.Login(appID) }
func (richGo) Logout()                                    { client.Logout() }
func (richGo) SetActivity(activity client.Activity) error { return client.SetActivity(activity) }

// Presence connects lazily and reconnects on the next update after a failure.
// Failures are logged and never returned, the radio keeps playing without a status.
type Presence struct {
	opts Options
	rpc  rpc
	now  func() time.Time
	log  *logrus.Entry

	mu        sync.Mutex
	connected bool
}

func New(opts Options) *Presence {
	return newPresence(opts, richGo{})
}

func newPresence(opts Options, r rpc) *Presence {
	return &Presence{
		opts: opts,
		rpc:  r,
		now:  time.Now,
		log:  log.Component("presence"),
	}
}

// Connected reports whether the last update reached the chat client.
func (p *Presence) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

// Update shows np. A track update without a song clears the status.
func (p *Presence) Update(np listen.NowPlaying) {
	if np.Song == nil {
		p.Clear()
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.connected {
		if err := p.rpc.Login(p.opts.AppID); err != nil {
			p.log.Debugf("chat client not reachable: %v", err)
			return
		}
		p.connected = true
		p.log.Info("connected")
	}

	if err := p.rpc.SetActivity(Activity(p.opts, np, p.now())); err != nil {
		p.log.Warnf("unable to update: %v", err)
		p.rpc.Logout()
		p.connected = false
	}
}

// Clear removes the status by dropping the connection.
func (p *Presence) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.connected {
		p.rpc.Logout()
		p.connected = false
	}
}

func (p *Presence) Close() error {
	p.Clear()
	return nil
}

// Activity renders np with the templates of opts.
func Activity(opts Options, np listen.NowPlaying, now time.Time) client.Activity {
	song := np.Song
	vars := variables(opts.Format, np)
	large := song.AlbumImage().OrElse(opts.Fallback)

	activity := client.Activity{
		Details:    substitute(opts.Detail, vars),
		State:      substitute(opts.State, vars),
		LargeImage: large,
		LargeText:  substitute(opts.LargeText, vars),
		SmallText:  substitute(opts.SmallText, vars),
		Buttons:    []*client.Button{{Label: "Join radio", Url: constant.Site + "/"}},
	}

	if activity.SmallText != "" {
		if small := song.ArtistImage().OrEmpty(); small != large {
			activity.SmallImage = small
		}
	}

	if end := np.TimeEnd(); opts.ShowTimeLeft && !end.IsZero() {
		activity.Timestamps = &client.Timestamps{End: &end}
	} else {
		start := lo.Ternary(np.StartTime.IsZero(), now, np.StartTime)
		activity.Timestamps = &client.Timestamps{Start: &start}
	}

	return activity
}

func variables(f listen.Format, np listen.NowPlaying) map[string]string {
	song := np.Song
	source := song.FormatSource(f)

	vars := map[string]string{
		"id":           strconv.Itoa(song.ID),
		"title":        song.FormatTitle(f),
		"artist":       song.FormatArtists(f),
		"artist2":      song.FormatArtists(listen.Format{RomajiFirst: f.RomajiFirst}),
		"artist_image": song.ArtistImage().OrEmpty(),
		"album":        song.FormatAlbum(f),
		"album_image":  song.AlbumImage().OrEmpty(),
		"source":       source,
		"source2":      lo.Ternary(source == "", "", "["+source+"]"),
		"source_image": song.SourceImage().OrEmpty(),
		"requester":    "",
		"event":        "",
	}
	if np.Requester != nil {
		vars["requester"] = np.Requester.DisplayName
	}
	if np.Event != nil {
		vars["event"] = np.Event.Name
	}
	return vars
}

// substitute expands ${name} placeholders. Unknown placeholders are kept as written.
func substitute(template string, vars map[string]string) string {
	expanded := os.Expand(template, func(name string) string {
		if value, ok := vars[name]; ok {
			return value
		}
		return "${" + name + "}"
	})
	return sanitize(strings.TrimSpace(expanded))
}

// sanitize pads or truncates text to what the chat client accepts. Empty text stays empty.
func sanitize(text string) string {
	if text == "" {
		return ""
	}
	if utf8.RuneCountInString(text) < minLength {
		return strings.TrimSpace(text + placeholder)
	}
	if runes := []rune(text); len(runes) >= maxLength {
		return string(runes[:maxLength-3]) + "..."
	}
	return text
}
