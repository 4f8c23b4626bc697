package config

import (
	"fmt"
	"sort"

	"github.com/listentui/listentui/constant"
	"github.com/listentui/listentui/icon"
	"github.com/listentui/listentui/key"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

var fields = []Field{
	{Key: key.StreamStation, Value: constant.StationJPop, Description: "Station to tune into", Options: stations()},
	{Key: key.StreamURL, Value: "", Description: "Override the audio stream URL of the selected station"},

	{Key: key.PlayerCodec, Value: "vorbis", Description: "Audio decoder passed to the player (--ad)"},
	{Key: key.PlayerCache, Value: true, Description: "Enable the demuxer cache"},
	{Key: key.PlayerCacheSecs, Value: 20, Description: "Seconds of audio to keep buffered", Min: 0, Max: 600},
	{Key: key.PlayerCachePauseInitial, Value: true, Description: "Wait for the cache to fill before starting playback"},
	{Key: key.PlayerCachePauseWait, Value: 3, Description: "Seconds of cache required before resuming after an underrun"},
	{Key: key.PlayerLinearizeTimestamps, Value: true, Description: "Linearize stream timestamps.\nHelps with streams that reset their clock on song change"},
	{Key: key.PlayerDynamicRangeCompress, Value: true, Description: "Apply a loudness compressor to even out volume between songs"},
	{Key: key.PlayerExtraArgs, Value: []string{}, Description: "Extra arguments passed verbatim to the player"},
	{Key: key.PlayerVolume, Value: 100, Description: "Initial volume. From 0 to 100\nUpdated on exit", Min: 0, Max: 100},
	{Key: key.PlayerVolumeStep, Value: 5, Description: "Volume change per key press", Min: 1, Max: 50},

	{Key: key.PlaybackRestartTimeout, Value: 20, Description: "Seconds to wait for the stream to start after a restart.\nGrows by 5 seconds with every failed attempt"},
	{Key: key.PlaybackRestartTimeoutCap, Value: 60, Description: "Upper bound of the restart timeout in seconds"},
	{Key: key.PlaybackSoftCap, Value: 5, Description: "Failed restarts before the player process is recreated", Min: 1, Max: 100},
	{Key: key.PlaybackHardCap, Value: 10, Description: "Failed restarts before giving up", Min: 1, Max: 100},
	{Key: key.PlaybackInactivityTimeout, Value: 5, Description: "Seconds the stream may stay idle before it is restarted"},
	{Key: key.PlaybackPollInterval, Value: 3, Description: "Seconds between stream health checks"},
	{Key: key.PlaybackStartupTimeout, Value: 120, Description: "Seconds to wait for the stream on startup"},
	{Key: key.PreviewTimeout, Value: 10, Description: "Seconds to wait for a song preview to start"},

	{Key: key.PresenceEnable, Value: false, Description: "Show the current song as your chat status"},
	{Key: key.PresenceAppID, Value: "1004411417416339566", Description: "Application ID used for the chat status"},
	{Key: key.PresenceDetail, Value: "${title}", Description: "First status line.\nAvailable variables: ${title}, ${artist}, ${artist2}, ${source}, ${source2}, ${album}, ${requester}, ${event}"},
	{Key: key.PresenceState, Value: "${artist}", Description: "Second status line.\nAvailable variables: ${title}, ${artist}, ${artist2}, ${source}, ${source2}, ${album}, ${requester}, ${event}"},
	{Key: key.PresenceLargeText, Value: "${album}", Description: "Hover text of the large image"},
	{Key: key.PresenceSmallText, Value: "", Description: "Hover text of the small image"},
	{Key: key.PresenceShowTimeLeft, Value: true, Description: "Show the remaining time instead of the elapsed time"},
	{Key: key.PresenceFallback, Value: "fallback2", Description: "Image shown when the song has no cover"},

	{Key: key.DisplayRomajiFirst, Value: true, Description: "Prefer romaji names over native names"},
	{Key: key.DisplayShowCharacters, Value: true, Description: "Show character names next to voice actors"},
	{Key: key.ClientUsername, Value: "", Description: "Account used for favorites and requests.\nType \"listentui login\" to sign in"},
	{Key: key.HistorySave, Value: true, Description: "Remember songs heard on the radio"},
	{Key: key.HistoryLimit, Value: 100, Description: "Maximum number of remembered songs", Min: 0, Max: 10000},
	{Key: key.SearchShowQuerySuggestions, Value: true, Description: "Show query suggestions when searching"},
	{Key: key.SearchLimit, Value: 50, Description: "Limit of search results to show", Min: 1, Max: 500},
	{Key: key.IconsVariant, Value: "plain", Description: "Icons variant. nerd requires a patched font", Options: icon.AvailableVariants()},

	{Key: key.LogsWrite, Value: false, Description: "Write logs"},
	{Key: key.LogsLevel, Value: "info", Description: "Log level, from least to most verbose", Options: levels()},
	{Key: key.LogsJson, Value: false, Description: "Use json format for logs"},
	{Key: key.CliColored, Value: true, Description: "Enable colored CLI output"},
	{Key: key.CliVersionCheck, Value: true, Description: "Enable automatic version check"},
}

// Default maps every key to its field.
var Default = make(map[string]Field, len(fields))

func init() {
	for _, f := range fields {
		if _, dup := Default[f.Key]; dup {
			panic("duplicate config key: " + f.Key)
		}
		Default[f.Key] = f
	}

	if len(Default) != key.DefinedFieldsCount {
		panic(fmt.Sprintf("expected %d config fields, got %d", key.DefinedFieldsCount, len(Default)))
	}
}

func stations() []string {
	names := lo.Keys(constant.Stations)
	sort.Strings(names)
	return names
}

func levels() []string {
	return lo.Map(logrus.AllLevels, func(l logrus.Level, _ int) string { return l.String() })
}
