package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/listentui/listentui/color"
	"github.com/listentui/listentui/constant"
	"github.com/listentui/listentui/playback"
	"github.com/listentui/listentui/style"
	"github.com/listentui/listentui/version"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type buildInfo struct {
	Version  string `json:"version"`
	Revision string `json:"revision"`
	BuiltAt  string `json:"built_at"`
	BuiltBy  string `json:"built_by"`
	Platform string `json:"platform"`
	Stream   string `json:"stream"`
}

func currentBuild() buildInfo {
	return buildInfo{
		Version:  constant.Version,
		Revision: constant.Revision,
		BuiltAt:  strings.TrimSpace(constant.BuiltAt),
		BuiltBy:  constant.BuiltBy,
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
		Stream:   playback.StreamURL(),
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		info := currentBuild()

		switch {
		case lo.Must(cmd.Flags().GetBool("short")):
			cmd.Println(info.Version)
			return
		case lo.Must(cmd.Flags().GetBool("json")):
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(info))
			return
		}

		defer version.Notify()

		accent := style.Fg(color.Purple)
		cmd.Println(accent("▇▇▇") + " " + accent(constant.App))
		cmd.Println()
		for _, row := range [][2]string{
			{"Version", info.Version},
			{"Git Commit", info.Revision},
			{"Build Date", info.BuiltAt},
			{"Built By", info.BuiltBy},
			{"Platform", info.Platform},
			{"Stream", info.Stream},
		} {
			cmd.Printf("  %s %s\n", style.Faint(fmt.Sprintf("%-12s", row[0])), style.Bold(row[1]))
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Print only the version")
	versionCmd.Flags().BoolP("json", "j", false, "Print the build information as JSON")
	versionCmd.MarkFlagsMutuallyExclusive("short", "json")
}
