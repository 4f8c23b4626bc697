// Package cmd implements the command line of the radio.
package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"os"
	"strings"

	"github.com/listentui/listentui/color"
	"github.com/listentui/listentui/constant"
	"github.com/listentui/listentui/icon"
	"github.com/listentui/listentui/key"
	"github.com/listentui/listentui/log"
	"github.com/listentui/listentui/style"
	"github.com/listentui/listentui/version"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Icon variant to use")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.Flags().StringP("station", "s", "", "Station to tune into (jpop or kpop)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("station", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return lo.Keys(constant.Stations), cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.StreamStation, rootCmd.Flags().Lookup("station")))

	rootCmd.Flags().BoolP("no-presence", "P", false, "Do not show the song in the chat client status")
	rootCmd.Flags().BoolP("no-history", "H", false, "Do not remember the songs heard")

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})
}

var rootCmd = &cobra.Command{
	Use:   constant.App,
	Short: "Listen to LISTEN.moe from the terminal",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Listen to LISTEN.moe from the terminal"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		CheckDependencies()

		if lo.Must(cmd.Flags().GetBool("no-presence")) {
			viper.Set(key.PresenceEnable, false)
		}
		if lo.Must(cmd.Flags().GetBool("no-history")) {
			viper.Set(key.HistorySave, false)
		}

		handleErr(runRadio(cmd.Context()))
	},
}

// Execute runs the command named on the command line.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
