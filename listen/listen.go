// Package listen is a client for the radio's GraphQL API.
package listen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/listentui/listentui/constant"
	"github.com/listentui/listentui/log"
	"github.com/listentui/listentui/network"
	"github.com/listentui/listentui/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

var (
	// ErrNotAuthenticated is returned by operations needing an account when nobody is logged in.
	ErrNotAuthenticated = errors.New("not logged in")

	// ErrRequestsExhausted means the daily request budget of the account is used up.
	ErrRequestsExhausted = errors.New("all requests used up for today")

	// ErrAlreadyQueued means the requested song is already in the queue.
	ErrAlreadyQueued = errors.New("song already queued")
)

// Messages the server uses for known failures.
const (
	msgNotLoggedIn       = "Not logged in."
	msgRequestsExhausted = "All requests used up for today."
	msgAlreadyQueued     = "Song already queued."
)

// GraphQLError carries the error messages of a GraphQL response.
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return "graphql: " + strings.Join(e.Messages, "; ")
}

// Is maps well known server messages to the package errors.
func (e *GraphQLError) Is(target error) bool {
	var msg string
	switch target {
	case ErrNotAuthenticated:
		msg = msgNotLoggedIn
	case ErrRequestsExhausted:
		msg = msgRequestsExhausted
	case ErrAlreadyQueued:
		msg = msgAlreadyQueued
	default:
		return false
	}
	return lo.Contains(e.Messages, msg)
}

// Options configure a Client.
type Options struct {
	// Endpoint defaults to the public API.
	Endpoint string
	// HTTPClient defaults to network.Client.
	HTTPClient *http.Client
	// Rate and Burst bound outgoing requests.
	Rate  rate.Limit
	Burst int
	// CacheDir holds the persistent lookup caches, where.Cache() when empty.
	CacheDir string
}

func (o Options) withDefaults() Options {
	if o.Endpoint == "" {
		o.Endpoint = constant.GraphQL
	}
	if o.HTTPClient == nil {
		o.HTTPClient = network.Client
	}
	if o.Rate == 0 {
		o.Rate = rate.Every(200 * time.Millisecond)
	}
	if o.Burst == 0 {
		o.Burst = 5
	}
	if o.CacheDir == "" {
		o.CacheDir = where.Cache()
	}
	return o
}

// Session is the logged in account.
type Session struct {
	User  *User
	Token string

	password string
}

// Client talks to the API. It is safe for concurrent use.
type Client struct {
	endpoint string
	http     *http.Client
	limiter  *rate.Limiter
	group    singleflight.Group
	log      *logrus.Entry

	songs    *cacher[int, *Song]
	searches *cacher[string, []int]

	mu      sync.RWMutex
	session mo.Option[Session]
}

// New creates an anonymous client.
func New(opts Options) *Client {
	opts = opts.withDefaults()

	return &Client{
		endpoint: opts.Endpoint,
		http:     opts.HTTPClient,
		limiter:  rate.NewLimiter(opts.Rate, opts.Burst),
		log:      log.Component("listen"),
		songs:    newCacher[int, *Song](filepath.Join(opts.CacheDir, "songs.json"), 48*time.Hour, func(id int) int { return id }),
		searches: newCacher[string, []int](filepath.Join(opts.CacheDir, "searches.json"), time.Hour, normalizedTerm),
	}
}

// Session returns the logged in account, if any.
func (c *Client) Session() mo.Option[Session] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// LoggedIn reports whether operations needing an account can be used.
func (c *Client) LoggedIn() bool {
	return c.Session().IsPresent()
}

// Logout forgets the session. Stored credentials are left alone.
func (c *Client) Logout() {
	c.mu.Lock()
	c.session = mo.None[Session]()
	c.mu.Unlock()
}

func (c *Client) token() string {
	if session, ok := c.Session().Get(); ok {
		return session.Token
	}
	return ""
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type responseError struct {
	Message string `json:"message"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []responseError `json:"errors"`
}

// execute runs a document and decodes its data into out.
// A session that expired server side is renewed once with the stored password.
func (c *Client) execute(ctx context.Context, query string, variables map[string]any, out any) error {
	err := c.do(ctx, query, variables, c.token(), out)
	if !errors.Is(err, ErrNotAuthenticated) {
		return err
	}

	session, ok := c.Session().Get()
	if !ok || session.password == "" {
		return err
	}

	c.log.Info("token rejected, logging in again")
	if _, lerr := c.Login(ctx, session.User.Username, session.password); lerr != nil {
		return fmt.Errorf("regenerate token: %w", lerr)
	}
	return c.do(ctx, query, variables, c.token(), out)
}

func (c *Client) do(ctx context.Context, query string, variables map[string]any, token string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(request{Query: query, Variables: variables})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("User-Agent", constant.UserAgent)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error(err)
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var decoded response
	if err := json.Unmarshal(raw, &decoded); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("invalid response code %d", resp.StatusCode)
		}
		return fmt.Errorf("decode response: %w", err)
	}

	if len(decoded.Errors) > 0 {
		gqlErr := &GraphQLError{Messages: lo.Map(decoded.Errors, func(e responseError, _ int) string {
			return e.Message
		})}
		c.log.Warn(gqlErr)
		return gqlErr
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("invalid response code %d", resp.StatusCode)
	}

	if out == nil || len(decoded.Data) == 0 {
		return nil
	}
	return json.Unmarshal(decoded.Data, out)
}

// shared coalesces identical concurrent lookups.
func shared[T any](c *Client, key string, fn func() (T, error)) (T, error) {
	v, err, _ := c.group.Do(key, func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
