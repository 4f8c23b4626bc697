package tui

import (
	"fmt"
	"strings"

	"github.com/listentui/listentui/color"
	"github.com/listentui/listentui/icon"
	"github.com/listentui/listentui/listen"
	"github.com/listentui/listentui/player"
	"github.com/listentui/listentui/playback"
	"github.com/listentui/listentui/style"
	"github.com/listentui/listentui/util"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/samber/lo"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case loadingState:
		output = b.viewLoading()
	case playerState:
		output = b.viewPlayer()
	case searchState:
		output = b.viewSearch()
	case resultsState:
		output = listExtraPaddingStyle.Render(b.resultsC.View())
	case historyState:
		output = listExtraPaddingStyle.Render(b.historyC.View())
	case songDetailState:
		output = b.viewSongDetail()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) header() string {
	return style.Title("LISTEN.moe") + " " + style.Tag(style.Base, style.Lavender)(strings.ToUpper(b.station))
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(
		true,
		[]string{
			b.header(),
			"",
			b.spinnerC.View() + " Connecting to the stream",
		},
	)
}

func (b *statefulBubble) viewPlayer() string {
	lines := []string{b.header(), ""}
	truncate := style.Truncate(b.width)

	np, ok := b.nowPlaying.Get()
	switch {
	case ok && np.Song != nil:
		lines = append(lines, b.songLines(np.Song)...)
		lines = append(lines, "", b.progressLine(np), "")
		lines = append(lines, truncate(b.detailsLine(np)))
	case b.streamTitle != "":
		lines = append(lines, truncate(style.Bold(b.streamTitle)))
	default:
		lines = append(lines, b.spinnerC.View()+" Waiting for the first song")
	}

	lines = append(lines, "", truncate(b.statusLine()))
	if p, ok := b.previewing.Get(); ok {
		lines = append(lines, truncate(b.previewLine(p)))
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) songLines(song *listen.Song) []string {
	truncate := style.Truncate(b.width)

	title := lipgloss.NewStyle().Bold(true).Foreground(style.AccentColor).Render(song.FormatTitle(b.format))
	if b.favorites[song.ID] {
		title += " " + style.Fg(style.Red)(icon.Get(icon.Heart))
	}

	lines := []string{truncate(title)}
	if artists := song.FormatArtists(b.format); artists != "" {
		lines = append(lines, truncate(style.Fg(style.Lavender)(artists)))
	}

	extra := lo.Compact([]string{song.FormatSource(b.format), song.FormatAlbum(b.format)})
	if len(extra) > 0 {
		lines = append(lines, truncate(style.Faint(strings.Join(extra, " · "))))
	}
	return lines
}

func (b *statefulBubble) progressLine(np listen.NowPlaying) string {
	elapsed := np.Elapsed(b.now())
	duration := np.Song.DurationTime()

	if duration <= 0 {
		return style.Faint(util.FormatDuration(elapsed))
	}
	return fmt.Sprintf(
		"%s %s",
		b.progressC.ViewAs(util.Ratio(elapsed, duration)),
		style.Faint(util.FormatDuration(elapsed)+" / "+util.FormatDuration(duration)),
	)
}

func (b *statefulBubble) detailsLine(np listen.NowPlaying) string {
	parts := []string{
		fmt.Sprintf("%s %s", icon.Get(icon.Listeners), util.Quantify(np.Listeners, "listener", "listeners")),
	}
	if np.Requester != nil && np.Requester.DisplayName != "" {
		parts = append(parts, fmt.Sprintf("%s requested by %s", icon.Get(icon.Request), style.Fg(style.Peach)(np.Requester.DisplayName)))
	}
	if np.Event != nil && np.Event.Name != "" {
		parts = append(parts, fmt.Sprintf("%s %s", icon.Get(icon.Event), style.Fg(style.Yellow)(np.Event.Name)))
	}
	return strings.Join(parts, "  ")
}

func (b *statefulBubble) statusLine() string {
	snap := b.snapshot

	var volume string
	if snap.Muted {
		volume = style.Fg(color.Gray)(icon.Get(icon.Mute) + " muted")
	} else {
		volume = fmt.Sprintf("%s %d%%", icon.Get(icon.Volume), snap.Volume)
	}

	var playing string
	switch {
	case snap.State == playback.Restarting:
		playing = style.Fg(style.Yellow)(icon.Get(icon.Progress) + " restarting")
	case snap.Paused == player.True:
		playing = style.Fg(style.Subtext)(icon.Get(icon.Pause) + " paused")
	case b.underrun:
		playing = style.Fg(style.Yellow)(icon.Get(icon.Progress) + " buffering")
	default:
		playing = style.Fg(style.Green)(icon.Get(icon.Play) + " " + snap.State.String())
	}

	parts := []string{playing, volume}
	if restart, ok := b.restart.Get(); ok {
		parts = append(parts, style.Fg(style.Red)(restart.String()))
	}
	return strings.Join(parts, "  ")
}

func (b *statefulBubble) previewLine(p previewProgress) string {
	label := icon.Get(icon.Preview) + " preview"
	if !p.playing {
		return style.Faint(label + " loading")
	}
	return fmt.Sprintf("%s %s", style.Fg(style.Peach)(label), b.previewC.ViewAs(p.progress))
}

func (b *statefulBubble) viewSearch() string {
	lines := []string{
		style.Title("Search Songs"),
		"",
		b.inputC.View(),
	}

	if suggestion, ok := b.searchSuggestion.Get(); ok {
		lines = append(lines, "", style.Faint(fmt.Sprintf("%s %s (tab)", icon.Get(icon.Search), suggestion)))
	}
	if b.searching {
		lines = append(lines, "", b.spinnerC.View()+" Searching")
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewSongDetail() string {
	song := b.selected
	if song == nil {
		return b.renderLines(true, []string{style.Title("Song"), "", "Nothing selected"})
	}

	lines := []string{style.Title("Song"), ""}
	lines = append(lines, b.songLines(song)...)

	if len(song.Characters) > 0 {
		names := lo.Map(song.Characters, func(c *listen.Character, _ int) string { return c.Format(b.format.RomajiFirst) })
		lines = append(lines, style.Faint("Characters: "+strings.Join(lo.Compact(names), ", ")))
	}

	lines = append(lines, "")
	if song.Duration > 0 {
		lines = append(lines, "Length: "+util.FormatDuration(song.DurationTime()))
	}
	if song.Played > 0 {
		lines = append(lines, "Played: "+util.Quantify(song.Played, "time", "times"))
	}
	if song.Uploader != nil && song.Uploader.DisplayName != "" {
		lines = append(lines, "Uploaded by "+style.Fg(style.Peach)(song.Uploader.DisplayName))
	}
	lines = append(lines, style.Faint(song.Link()))

	if p, ok := b.previewing.Get(); ok && p.songID == song.ID {
		lines = append(lines, "", b.previewLine(p))
	} else if song.SnippetURL().IsAbsent() {
		lines = append(lines, "", style.Faint("No preview available"))
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(style.ErrorColor).Bold(true)
	errorMsg := wrap.String(errorStyle.Render(b.lastError.Error()), b.width)
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " Something went wrong:",
			"",
			errorMsg,
		},
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
