// Package icon renders the symbols of the interface in the configured variant.
//
// Icons can be displayed as emoji, nerd-font glyphs, plain ASCII, kaomoji,
// or Unicode squares depending on user preference.
package icon

import (
	"github.com/listentui/listentui/key"
	"github.com/spf13/viper"
)

// Visual variants.
const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants lists the accepted values of icons.variant.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

// Icon identifies a symbol.
type Icon int

const (
	Play Icon = iota
	Pause
	Volume
	Mute
	Heart
	Listeners
	Request
	Event
	Preview
	Search
	History
	Progress
	Success
	Fail
	Info
)

// iconDef holds the renditions of one symbol.
type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

var icons = map[Icon]*iconDef{
	Play:      {emoji: "▶️", nerd: "", plain: ">", kaomoji: "(ﾉ◕ヮ◕)ﾉ", squares: "▶"},
	Pause:     {emoji: "⏸️", nerd: "", plain: "||", kaomoji: "(－_－) zzZ", squares: "⏸"},
	Volume:    {emoji: "🔊", nerd: "", plain: "vol", kaomoji: "ヾ(≧▽≦*)o", squares: "◧"},
	Mute:      {emoji: "🔇", nerd: "", plain: "mute", kaomoji: "(｡•́︿•̀｡)", squares: "□"},
	Heart:     {emoji: "❤️", nerd: "", plain: "<3", kaomoji: "(♡˙︶˙♡)", squares: "♥"},
	Listeners: {emoji: "🎧", nerd: "", plain: "ears", kaomoji: "(￣▽￣)ノ", squares: "▣"},
	Request:   {emoji: "📨", nerd: "", plain: "req", kaomoji: "(っ˘ω˘ς)", squares: "▤"},
	Event:     {emoji: "🎉", nerd: "", plain: "*", kaomoji: "☆*:.｡.o(≧▽≦)o.｡.:*☆", squares: "✦"},
	Preview:   {emoji: "🎵", nerd: "", plain: "~", kaomoji: "♪(´▽｀)", squares: "♪"},
	Search:    {emoji: "🔍", nerd: "", plain: "?", kaomoji: "(・・ ) ?", squares: "◎"},
	History:   {emoji: "🕘", nerd: "", plain: "hist", kaomoji: "(＿ ＿*) Z z z", squares: "◷"},
	Progress:  {emoji: "⏳", nerd: "", plain: "...", kaomoji: "(〃＾▽＾〃)", squares: "▦"},
	Success:   {emoji: "🎉", nerd: "", plain: "ok", kaomoji: "(ﾉ´ヮ`)ﾉ*: ･ﾟ", squares: "■"},
	Fail:      {emoji: "💔", nerd: "", plain: "x", kaomoji: "(╯°□°）╯︵ ┻━┻", squares: "▨"},
	Info:      {emoji: "ℹ️", nerd: "", plain: "i", kaomoji: "(・_・;)", squares: "▢"},
}

// Get returns the rendition of the receiver in the configured variant.
func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return ""
	}
}

// Get returns the rendition of i, empty for an unknown icon or variant.
func Get(i Icon) string {
	def, ok := icons[i]
	if !ok {
		return ""
	}
	return def.Get()
}
