package player

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// CacheState is a snapshot of the demuxer cache, used for buffering telemetry.
// Fields the backend did not report are -1.
type CacheState struct {
	CacheEnd      float64 `json:"cache_end"`
	CacheDuration float64 `json:"cache_duration"`
	FwBytes       float64 `json:"fw_bytes"`
	TotalBytes    float64 `json:"total_bytes"`
	ReaderPts     float64 `json:"reader_pts"`
	SeekableEnd   float64 `json:"seekable_end"`
}

// Progress returns how far the reader is into the buffered range, from 0 to 1.
func (c CacheState) Progress() float64 {
	if c.ReaderPts < 0 || c.CacheEnd <= 0 {
		return 0
	}
	return lo.Clamp(c.ReaderPts/c.CacheEnd, 0, 1)
}

func (c CacheState) String() string {
	return fmt.Sprintf("cache %.1fs (%.0f bytes ahead)", c.CacheDuration, c.FwBytes)
}

func parseCacheState(data any) (CacheState, bool) {
	raw, ok := data.(map[string]any)
	if !ok {
		return CacheState{}, false
	}

	number := func(m map[string]any, k string) float64 {
		if v, ok := m[k].(float64); ok {
			return v
		}
		return -1
	}

	state := CacheState{
		CacheEnd:      number(raw, "cache-end"),
		CacheDuration: number(raw, "cache-duration"),
		FwBytes:       number(raw, "fw-bytes"),
		TotalBytes:    number(raw, "total-bytes"),
		ReaderPts:     number(raw, "reader-pts"),
		SeekableEnd:   -1,
	}

	if ranges, ok := raw["seekable-ranges"].([]any); ok && len(ranges) > 0 {
		if first, ok := ranges[0].(map[string]any); ok {
			state.SeekableEnd = number(first, "end")
		}
	}

	return state, true
}

// Metadata holds the tags the stream announces for the current song.
type Metadata struct {
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	Genre       string `json:"genre"`
	StreamTitle string `json:"stream_title"`
}

// Equal reports whether both describe the same song.
func (m Metadata) Equal(other Metadata) bool {
	return m == other
}

// IsEmpty reports whether no tag is set.
func (m Metadata) IsEmpty() bool {
	return m == Metadata{}
}

func (m Metadata) String() string {
	if m.Artist != "" && m.Title != "" {
		return m.Artist + " - " + m.Title
	}
	return lo.CoalesceOrEmpty(m.Title, m.StreamTitle)
}

func parseMetadata(data any) (Metadata, bool) {
	raw, ok := data.(map[string]any)
	if !ok {
		return Metadata{}, false
	}

	// tag names differ in case between containers
	tags := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			tags[strings.ToLower(k)] = s
		}
	}

	return Metadata{
		Title:       tags["title"],
		Artist:      tags["artist"],
		Album:       tags["album"],
		Genre:       lo.CoalesceOrEmpty(tags["genre"], tags["icy-genre"]),
		StreamTitle: lo.CoalesceOrEmpty(tags["icy-title"], tags["icy-name"]),
	}, true
}
