package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/listentui/listentui/constant"
	"github.com/listentui/listentui/icon"
	"github.com/listentui/listentui/style"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

const playerBinary = "mpv"

// CheckDependencies exits with install hints when the player is missing from PATH.
func CheckDependencies() {
	if _, err := exec.LookPath(playerBinary); err != nil {
		printMissingDependencyError(playerBinary)
		os.Exit(1)
	}
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the player is installed",
	Run: func(cmd *cobra.Command, args []string) {
		path, err := exec.LookPath(playerBinary)
		if err != nil {
			printMissingDependencyError(playerBinary)
			os.Exit(1)
		}
		fmt.Printf("%s %s found at %s\n", style.Fg(style.Green)(icon.Get(icon.Success)), playerBinary, path)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func installHint(goos string) string {
	switch goos {
	case constant.Darwin:
		return "brew install mpv"
	case constant.Linux:
		return "sudo apt install mpv"
	case constant.Windows:
		return "scoop install mpv"
	case constant.Android:
		return "pkg install mpv"
	default:
		return ""
	}
}

func printMissingDependencyError(dep string) {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s Missing dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("%s plays the radio but was not found in your PATH.", dep))

	var suggestion string
	if hint := installHint(runtime.GOOS); hint != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(hint))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
