package listen

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Number of system feed entries fetched with the user profile.
const (
	systemOffset = 0
	systemCount  = 10
)

// Login authenticates with a username and password and starts a session.
func (c *Client) Login(ctx context.Context, username, password string) (*User, error) {
	var out struct {
		Login struct {
			User  *User  `json:"user"`
			Token string `json:"token"`
		} `json:"login"`
	}

	c.log.Infof("logging in as %s", username)
	err := c.do(ctx, loginMutation, map[string]any{
		"username":     username,
		"password":     password,
		"systemOffset": systemOffset,
		"systemCount":  systemCount,
	}, "", &out)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if out.Login.User == nil || out.Login.Token == "" {
		return nil, fmt.Errorf("login: empty response")
	}

	c.mu.Lock()
	c.session = mo.Some(Session{User: out.Login.User, Token: out.Login.Token, password: password})
	c.mu.Unlock()

	return out.Login.User, nil
}

// Resume starts a session from stored credentials. A still valid token is reused,
// otherwise a new one is obtained with the password.
func (c *Client) Resume(ctx context.Context, creds Credentials) (*User, error) {
	if !TokenValid(creds.Token, time.Now()) {
		return c.Login(ctx, creds.Username, creds.Password)
	}

	user, err := c.fetchUser(ctx, creds.Username, creds.Token)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.session = mo.Some(Session{User: user, Token: creds.Token, password: creds.Password})
	c.mu.Unlock()

	return user, nil
}

// Credentials returns what should be stored to resume the current session.
func (c *Client) Credentials() mo.Option[Credentials] {
	session, ok := c.Session().Get()
	if !ok {
		return mo.None[Credentials]()
	}
	return mo.Some(Credentials{Username: session.User.Username, Password: session.password, Token: session.Token})
}

// User fetches a public profile.
func (c *Client) User(ctx context.Context, username string) (*User, error) {
	return c.fetchUser(ctx, username, c.token())
}

func (c *Client) fetchUser(ctx context.Context, username, token string) (*User, error) {
	var out struct {
		User *User `json:"user"`
	}

	err := c.do(ctx, userQuery, map[string]any{
		"username":     username,
		"systemOffset": systemOffset,
		"systemCount":  systemCount,
	}, token, &out)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", username, err)
	}
	if out.User == nil {
		return nil, fmt.Errorf("user %s not found", username)
	}
	return out.User, nil
}

// RefreshUser re-fetches the profile of the logged in account.
func (c *Client) RefreshUser(ctx context.Context) (*User, error) {
	session, ok := c.Session().Get()
	if !ok {
		return nil, ErrNotAuthenticated
	}

	user, err := c.User(ctx, session.User.Username)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if current, ok := c.session.Get(); ok {
		current.User = user
		c.session = mo.Some(current)
	}
	c.mu.Unlock()

	return user, nil
}

// Song returns the song with the given id, nil if there is none.
func (c *Client) Song(ctx context.Context, id int) (*Song, error) {
	if song, ok := c.songs.Get(id).Get(); ok {
		return song, nil
	}

	return shared(c, fmt.Sprintf("song:%d", id), func() (*Song, error) {
		var out struct {
			Song *Song `json:"song"`
		}
		if err := c.execute(ctx, songQuery, map[string]any{"id": id}, &out); err != nil {
			return nil, fmt.Errorf("song %d: %w", id, err)
		}
		if out.Song != nil {
			c.remember(out.Song)
		}
		return out.Song, nil
	})
}

// Songs pages through the whole library.
func (c *Client) Songs(ctx context.Context, offset, count int) ([]*Song, int, error) {
	var out struct {
		Songs struct {
			Songs []*Song `json:"songs"`
			Count int     `json:"count"`
		} `json:"songs"`
	}

	err := c.execute(ctx, songsQuery, map[string]any{"offset": offset, "count": count}, &out)
	if err != nil {
		return nil, 0, fmt.Errorf("songs: %w", err)
	}
	return out.Songs.Songs, out.Songs.Count, nil
}

func (c *Client) Album(ctx context.Context, id int) (*Album, error) {
	return shared(c, fmt.Sprintf("album:%d", id), func() (*Album, error) {
		var out struct {
			Album *Album `json:"album"`
		}
		if err := c.execute(ctx, albumQuery, map[string]any{"id": id}, &out); err != nil {
			return nil, fmt.Errorf("album %d: %w", id, err)
		}
		return out.Album, nil
	})
}

func (c *Client) Artist(ctx context.Context, id int) (*Artist, error) {
	return shared(c, fmt.Sprintf("artist:%d", id), func() (*Artist, error) {
		var out struct {
			Artist *Artist `json:"artist"`
		}
		if err := c.execute(ctx, artistQuery, map[string]any{"id": id}, &out); err != nil {
			return nil, fmt.Errorf("artist %d: %w", id, err)
		}
		return out.Artist, nil
	})
}

func (c *Client) Source(ctx context.Context, id int) (*Source, error) {
	return shared(c, fmt.Sprintf("source:%d", id), func() (*Source, error) {
		var out struct {
			Source *Source `json:"source"`
		}
		if err := c.execute(ctx, sourceQuery, map[string]any{"id": id}, &out); err != nil {
			return nil, fmt.Errorf("source %d: %w", id, err)
		}
		return out.Source, nil
	})
}

func (c *Client) Character(ctx context.Context, id int) (*Character, error) {
	return shared(c, fmt.Sprintf("character:%d", id), func() (*Character, error) {
		var out struct {
			Character *Character `json:"character"`
		}
		if err := c.execute(ctx, characterQuery, map[string]any{"id": id}, &out); err != nil {
			return nil, fmt.Errorf("character %d: %w", id, err)
		}
		return out.Character, nil
	})
}

// Search looks songs up by title, artist or source. count limits the results when positive.
// Restricting to favorites needs a session.
func (c *Client) Search(ctx context.Context, term string, count int, favoritesOnly bool) ([]*Song, error) {
	if favoritesOnly && !c.LoggedIn() {
		return nil, ErrNotAuthenticated
	}

	term = normalizedTerm(term)
	songs, err := c.search(ctx, term, favoritesOnly)
	if err != nil {
		return nil, err
	}

	if count > 0 && len(songs) > count {
		songs = songs[:count]
	}
	return songs, nil
}

func (c *Client) search(ctx context.Context, term string, favoritesOnly bool) ([]*Song, error) {
	if !favoritesOnly {
		if ids, ok := c.searches.Get(term).Get(); ok {
			songs := lo.FilterMap(ids, func(id int, _ int) (*Song, bool) {
				return c.songs.Get(id).Get()
			})
			if len(songs) == len(ids) {
				return songs, nil
			}
			_ = c.searches.Delete(term)
		}
	}

	return shared(c, fmt.Sprintf("search:%t:%s", favoritesOnly, term), func() ([]*Song, error) {
		var out struct {
			Search []*Song `json:"search"`
		}

		c.log.Infof("searching for %q", term)
		err := c.execute(ctx, searchQuery, map[string]any{"term": term, "favoritesOnly": favoritesOnly}, &out)
		if err != nil {
			return nil, fmt.Errorf("search %q: %w", term, err)
		}

		songs := lo.Filter(out.Search, func(s *Song, _ int) bool { return s != nil })
		c.log.Infof("found %d songs for %q", len(songs), term)

		if !favoritesOnly {
			for _, song := range songs {
				c.remember(song)
			}
			_ = c.searches.Set(term, lo.Map(songs, func(s *Song, _ int) int { return s.ID }))
		}
		return songs, nil
	})
}

// CheckFavorite reports for each id whether it is a favorite of the logged in account.
func (c *Client) CheckFavorite(ctx context.Context, ids ...int) (map[int]bool, error) {
	if !c.LoggedIn() {
		return nil, ErrNotAuthenticated
	}

	var out struct {
		CheckFavorite []int `json:"checkFavorite"`
	}
	if err := c.execute(ctx, checkFavoriteQuery, map[string]any{"songs": ids}, &out); err != nil {
		return nil, fmt.Errorf("check favorites: %w", err)
	}

	favorites := lo.Keyify(out.CheckFavorite)
	return lo.SliceToMap(ids, func(id int) (int, bool) {
		_, ok := favorites[id]
		return id, ok
	}), nil
}

// FavoriteSong toggles the favorite state of a song.
func (c *Client) FavoriteSong(ctx context.Context, id int) error {
	if !c.LoggedIn() {
		return ErrNotAuthenticated
	}

	if err := c.execute(ctx, favoriteSongMutation, map[string]any{"id": id}, nil); err != nil {
		return fmt.Errorf("favorite song %d: %w", id, err)
	}
	return nil
}

// RequestSong queues a song. ErrRequestsExhausted and ErrAlreadyQueued can be matched with errors.Is.
func (c *Client) RequestSong(ctx context.Context, id int) (*Song, error) {
	if !c.LoggedIn() {
		return nil, ErrNotAuthenticated
	}

	var out struct {
		RequestSong *Song `json:"requestSong"`
	}
	if err := c.execute(ctx, requestSongMutation, map[string]any{"id": id}, &out); err != nil {
		return nil, fmt.Errorf("request song %d: %w", id, err)
	}
	return out.RequestSong, nil
}

// RequestRandomFavorite queues a random favorite of the logged in account.
func (c *Client) RequestRandomFavorite(ctx context.Context) (*Song, error) {
	if !c.LoggedIn() {
		return nil, ErrNotAuthenticated
	}

	var out struct {
		RequestRandomFavorite *Song `json:"requestRandomFavorite"`
	}
	if err := c.execute(ctx, requestRandomFavoriteMutation, nil, &out); err != nil {
		return nil, fmt.Errorf("request random favorite: %w", err)
	}
	return out.RequestRandomFavorite, nil
}

// History returns the most recently played songs of the station.
func (c *Client) History(ctx context.Context, count, offset int) ([]*PlayStatistic, error) {
	var out struct {
		PlayStatistics struct {
			Songs []*PlayStatistic `json:"songs"`
		} `json:"playStatistics"`
	}

	err := c.execute(ctx, playStatisticsQuery, map[string]any{"count": count, "offset": offset}, &out)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return out.PlayStatistics.Songs, nil
}

func (c *Client) remember(song *Song) {
	if err := c.songs.Set(song.ID, song); err != nil {
		c.log.Warnf("cache song %d: %v", song.ID, err)
	}
}
