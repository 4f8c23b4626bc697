// Package network holds the HTTP client shared by every API call.
package network

import (
	"net/http"
	"time"

	"github.com/listentui/listentui/constant"
)

// Client identifies itself to the radio and gives up on a request after 30 seconds.
var Client = &http.Client{
	Timeout:   30 * time.Second,
	Transport: &userAgent{next: newTransport()},
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 20
	t.MaxIdleConnsPerHost = 10
	t.IdleConnTimeout = 90 * time.Second
	t.ResponseHeaderTimeout = 20 * time.Second
	return t
}

// userAgent sets the User-Agent header unless the request already has one.
type userAgent struct {
	next http.RoundTripper
}

func (u *userAgent) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return u.next.RoundTrip(req)
	}

	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", constant.UserAgent)
	return u.next.RoundTrip(req)
}
