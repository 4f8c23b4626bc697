// Package key names the configuration keys.
package key

// DefinedFieldsCount must match the number of fields registered in config.
const DefinedFieldsCount = 41

// Stream
const (
	StreamStation = "stream.station"
	StreamURL     = "stream.url"
)

// Player process arguments. They are read when a process is spawned,
// so changes apply after a hard restart.
const (
	PlayerCodec                = "player.codec"
	PlayerCache                = "player.cache"
	PlayerCacheSecs            = "player.cache_secs"
	PlayerCachePauseInitial    = "player.cache_pause_initial"
	PlayerCachePauseWait       = "player.cache_pause_wait"
	PlayerLinearizeTimestamps  = "player.linearize_timestamps"
	PlayerDynamicRangeCompress = "player.dynamic_range_compression"
	PlayerExtraArgs            = "player.extra_args"
	PlayerVolume               = "player.volume"
	PlayerVolumeStep           = "player.volume_step"
)

// Stall detection and restart escalation. Durations are in seconds.
const (
	PlaybackRestartTimeout    = "playback.restart_timeout"
	PlaybackRestartTimeoutCap = "playback.restart_timeout_cap"
	PlaybackSoftCap           = "playback.soft_cap"
	PlaybackHardCap           = "playback.hard_cap"
	PlaybackInactivityTimeout = "playback.inactivity_timeout"
	PlaybackPollInterval      = "playback.poll_interval"
	PlaybackStartupTimeout    = "playback.startup_timeout"
)

// Snippet Preview
const (
	PreviewTimeout = "preview.timeout"
)

// Chat status
const (
	PresenceEnable       = "presence.enable"
	PresenceAppID        = "presence.app_id"
	PresenceDetail       = "presence.detail"
	PresenceState        = "presence.state"
	PresenceLargeText    = "presence.large_text"
	PresenceSmallText    = "presence.small_text"
	PresenceShowTimeLeft = "presence.show_time_left"
	PresenceFallback     = "presence.fallback"
)

// Song rendering
const (
	DisplayRomajiFirst    = "display.romaji_first"
	DisplayShowCharacters = "display.show_characters"
)

// Account
const (
	ClientUsername = "client.username"
)

// History
const (
	HistorySave  = "history.save"
	HistoryLimit = "history.limit"
)

// Search
const (
	SearchShowQuerySuggestions = "search.show_query_suggestions"
	SearchLimit                = "search.limit"
)

const (
	IconsVariant = "icons.variant"
)

// Logs
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// Command line
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
