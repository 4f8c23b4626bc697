package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/listentui/listentui/color"
	"github.com/listentui/listentui/history"
	"github.com/listentui/listentui/icon"
	"github.com/listentui/listentui/listen"
	"github.com/listentui/listentui/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().BoolP("clear", "c", false, "Forget every song heard")
	historyCmd.Flags().BoolP("json", "j", false, "Print the history as JSON")
	historyCmd.Flags().BoolP("station", "s", false, "Show what the station played lately instead")
	historyCmd.Flags().IntP("count", "n", 20, "Number of songs to show")
	historyCmd.MarkFlagsMutuallyExclusive("clear", "station")

	historyCmd.SetOut(os.Stdout)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the songs heard on the radio",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("clear")) {
			handleErr(history.Clear())
			fmt.Printf("%s history cleared\n", style.Fg(color.Green)(icon.Get(icon.Success)))
			return
		}

		count := max(lo.Must(cmd.Flags().GetInt("count")), 1)

		var entries []*history.Entry
		if lo.Must(cmd.Flags().GetBool("station")) {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			plays, err := listen.New(listen.Options{}).History(ctx, count, 0)
			handleErr(err)

			entries = lo.FilterMap(plays, func(p *listen.PlayStatistic, _ int) (*history.Entry, bool) {
				if p.Song == nil {
					return nil, false
				}
				entry := &history.Entry{Song: p.Song, HeardAt: p.CreatedAt.Time()}
				if p.Requester != nil {
					entry.Requester = p.Requester.DisplayName
				}
				return entry, true
			})
		} else {
			var err error
			entries, err = history.Get()
			handleErr(err)
		}

		entries = entries[:min(count, len(entries))]

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(entries))
			return
		}

		if len(entries) == 0 {
			cmd.Println(style.Faint("Nothing heard yet"))
			return
		}

		format := listen.FormatFromConfig()
		for _, e := range entries {
			line := fmt.Sprintf(
				"%s %s",
				style.Faint(e.HeardAt.Local().Format(time.DateTime)),
				style.Fg(color.Purple)(e.Song.FormatTitle(format)),
			)
			if artists := e.Song.FormatArtists(format); artists != "" {
				line += " " + style.Fg(color.Yellow)(artists)
			}
			if e.Requester != "" {
				line += style.Faint(" requested by " + e.Requester)
			}
			cmd.Println(line)
		}
	},
}
