// Package constant defines immutable application-level identifiers and service endpoints.
package constant

const (
	// App is the canonical application identifier used for filesystem paths and CLI branding.
	App = "listentui"

	// Version is the current application semantic version string.
	Version = "0.4.0"

	// UserAgent is sent with every request to the radio service.
	UserAgent = App + "/" + Version
)

// Build metadata, overridden with -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)

// Radio service endpoints.
const (
	Site       = "https://listen.moe"
	GraphQL    = Site + "/graphql"
	CDN        = "https://cdn.listen.moe"
	SnippetCDN = CDN + "/snippets/"
)

// Station identifiers.
const (
	StationJPop = "jpop"
	StationKPop = "kpop"
)

// Stations maps a station identifier to its audio stream and now-playing gateway.
var Stations = map[string]struct {
	Stream  string
	Gateway string
}{
	StationJPop: {Stream: Site + "/stream", Gateway: "wss://listen.moe/gateway_v2"},
	StationKPop: {Stream: Site + "/kpop/stream", Gateway: "wss://listen.moe/kpop/gateway_v2"},
}

// runtime.GOOS values with their own mpv install hints and link openers.
const (
	Linux   = "linux"
	Darwin  = "darwin"
	Windows = "windows"
	Android = "android"
)
