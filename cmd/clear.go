package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/listentui/listentui/icon"
	"github.com/listentui/listentui/util"
	"github.com/listentui/listentui/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// clearable lists what may be deleted without losing settings or credentials.
var clearable = map[string]func() string{
	"cache":   where.Cache,
	"history": where.History,
	"queries": where.Queries,
	"temp":    where.Temp,
}

var clearCmd = &cobra.Command{
	Use:       "clear <target...>",
	Short:     "Remove cached and remembered data",
	Example:   "  listentui clear history queries\n  listentui clear --all",
	Args:      cobra.OnlyValidArgs,
	ValidArgs: lo.Keys(clearable),
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("all")) {
			args = []string{"queries", "history", "cache", "temp"}
		}
		if len(args) == 0 {
			handleErr(cmd.Help())
			return
		}

		for _, target := range lo.Uniq(args) {
			erase := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), target))
			err := util.Delete(clearable[target]())
			erase()
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				handleErr(err)
			}
			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(target))
		}
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().BoolP("all", "a", false, "Clear every target")
}
