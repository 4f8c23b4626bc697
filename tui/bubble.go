package tui

import (
	"context"
	"time"

	"github.com/listentui/listentui/constant"
	"github.com/listentui/listentui/internal/ui"
	"github.com/listentui/listentui/key"
	"github.com/listentui/listentui/listen"
	"github.com/listentui/listentui/playback"
	"github.com/listentui/listentui/style"
	"github.com/listentui/listentui/util"
	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// previewProgress tracks the snippet being played.
type previewProgress struct {
	songID   int
	playing  bool
	progress float64
}

// statefulBubble is the whole interface state.
type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]

	keymap *statefulKeymap

	// components
	spinnerC  spinner.Model
	inputC    textinput.Model
	resultsC  list.Model
	historyC  list.Model
	progressC progress.Model
	previewC  progress.Model
	helpC     help.Model

	ctx     context.Context
	radio   Radio
	preview Previewer
	library Library
	relay   *Relay
	station string
	format  listen.Format
	now     func() time.Time

	snapshot    playback.Snapshot
	nowPlaying  mo.Option[listen.NowPlaying]
	streamTitle string
	restart     mo.Option[playback.FailedRestart]
	underrun    bool
	favorites   map[int]bool
	selected    *listen.Song
	previewing  mo.Option[previewProgress]

	searching        bool
	searchSuggestion mo.Option[string]

	lastError error
	fatal     error

	width, height int
	notifier      *ui.Model
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState moves to s and remembers where it came from.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	if !lo.Contains([]state{loadingState, errorState}, b.state) {
		b.statesHistory.Push(b.state)
	}

	b.setState(s)
}

func (b *statefulBubble) previousState() {
	if b.statesHistory.Len() > 0 {
		b.setState(b.statesHistory.Pop())
	}
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	listWidth := width - xx
	listHeight := height - yy

	b.resultsC.SetSize(listWidth, listHeight)
	b.resultsC.Help.Width = listWidth

	b.historyC.SetSize(listWidth, listHeight)
	b.historyC.Help.Width = listWidth

	b.progressC.Width = max(listWidth-20, 10)
	b.previewC.Width = max(listWidth-20, 10)
	b.inputC.Width = listWidth

	b.width = width - x
	b.height = height - y
	b.helpC.Width = listWidth
}

func (b *statefulBubble) volumeStep() int {
	return max(viper.GetInt(key.PlayerVolumeStep), 1)
}

func (b *statefulBubble) searchLimit() int {
	return viper.GetInt(key.SearchLimit)
}

func newBubble(ctx context.Context, options Options) *statefulBubble {
	keymap := newStatefulKeymap()
	bubble := statefulBubble{
		statesHistory: util.Stack[state]{},
		keymap:        keymap,

		ctx:     ctx,
		radio:   options.Radio,
		preview: options.Previewer,
		library: options.Library,
		relay:   options.Relay,
		station: lo.CoalesceOrEmpty(options.Station, constant.StationJPop),
		format:  listen.FormatFromConfig(),
		now:     time.Now,

		favorites: make(map[int]bool),
		notifier:  &ui.Model{},
	}

	makeList := func(title string, titleColor lipgloss.Color) list.Model {
		delegate := list.NewDefaultDelegate()
		delegate.Styles.SelectedTitle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(style.AccentColor).
			Foreground(style.AccentColor).
			Padding(0, 0, 0, 1)
		delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
		delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

		listC := list.New([]list.Item{}, delegate, 0, 0)
		listC.KeyMap = bubble.keymap.forList()
		listC.AdditionalShortHelpKeys = bubble.keymap.ShortHelp
		listC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
			return bubble.keymap.FullHelp()[0]
		}
		listC.Title = title
		listC.Styles.NoItems = paddingStyle
		listC.Styles.Title = lipgloss.NewStyle().Foreground(style.Base).Background(titleColor).Padding(0, 1)
		listC.SetShowPagination(false)
		listC.SetFilteringEnabled(false)

		return listC
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(style.Pink)

	bubble.inputC = textinput.New()
	bubble.inputC.Placeholder = "Title, artist or source"
	bubble.inputC.CharLimit = 80
	bubble.inputC.Prompt = "> "

	bubble.progressC = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bubble.previewC = progress.New(progress.WithSolidFill(string(style.Peach)), progress.WithoutPercentage())

	bubble.resultsC = makeList("Search Results", style.Lavender)
	bubble.resultsC.SetStatusBarItemName("song", "songs")

	bubble.historyC = makeList("Heard Songs", style.Yellow)
	bubble.historyC.SetStatusBarItemName("song", "songs")

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	bubble.setState(loadingState)

	return &bubble
}
