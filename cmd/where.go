package cmd

import (
	"fmt"
	"os"

	"github.com/listentui/listentui/color"
	"github.com/listentui/listentui/style"
	"github.com/listentui/listentui/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type location struct {
	name string
	path func() string
	// Hidden locations are printed only when asked for by name.
	hidden bool
}

var locations = []location{
	{name: "config", path: where.Config},
	{name: "logs", path: where.Logs},
	{name: "history", path: where.History},
	{name: "cache", path: where.Cache, hidden: true},
	{name: "queries", path: where.Queries, hidden: true},
	{name: "temp", path: where.Temp, hidden: true},
}

var whereCmd = &cobra.Command{
	Use:       "where [location]",
	Short:     "Show where files are kept",
	Example:   "  listentui where\n  cd \"$(listentui where logs)\"",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: lo.Map(locations, func(l location, _ int) string { return l.name }),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 1 {
			l, _ := lo.Find(locations, func(l location) bool { return l.name == args[0] })
			cmd.Println(l.path())
			return
		}

		header := style.New().Bold(true).Foreground(color.HiPurple).Render
		for i, l := range lo.Reject(locations, func(l location, _ int) bool { return l.hidden }) {
			if i > 0 {
				cmd.Println()
			}
			cmd.Println(header(fmt.Sprintf("%s?", l.name)), style.Faint("listentui where "+l.name))
			cmd.Println(l.path())
		}
	},
}

func init() {
	rootCmd.AddCommand(whereCmd)
	whereCmd.SetOut(os.Stdout)
}
