package version

import (
	"fmt"
	"os"

	"github.com/listentui/listentui/color"
	"github.com/listentui/listentui/constant"
	"github.com/listentui/listentui/icon"
	"github.com/listentui/listentui/key"
	"github.com/listentui/listentui/log"
	"github.com/listentui/listentui/style"
	"github.com/listentui/listentui/util"
	"github.com/spf13/viper"
)

// Notify prints a notice when a newer release exists. A failed check prints nothing.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Checking for a new release...", icon.Get(icon.Progress)))
	latest, err := Latest()
	erase()
	if err != nil {
		log.Debugf("release check failed: %v", err)
		return
	}

	if text, ok := notice(latest, constant.Version); ok {
		fmt.Fprint(os.Stdout, text)
	}
}

func notice(latest, current string) (string, bool) {
	newer, err := Compare(latest, current)
	if err != nil || newer <= 0 {
		return "", false
	}

	return fmt.Sprintf("\n%s %s %s %s\n%s\n\n",
		style.Fg(color.Green)("▇▇▇"),
		"Release",
		style.Bold(latest),
		style.Faint(fmt.Sprintf("is out, you have %s", current)),
		style.Faint(releaseTag(latest)),
	), true
}

func releaseTag(v string) string {
	return "https://github.com/listentui/listentui/releases/tag/v" + v
}
