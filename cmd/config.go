package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/listentui/listentui/color"
	"github.com/listentui/listentui/config"
	"github.com/listentui/listentui/icon"
	"github.com/listentui/listentui/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func completionConfigKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return config.Keys(), cobra.ShellCompDirectiveNoFileComp
}

// completionConfigValues offers the options of the key given as the first argument.
func completionConfigValues(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.Keys(), cobra.ShellCompDirectiveNoFileComp
	}
	field, err := config.Lookup(args[0])
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	if _, ok := field.Value.(bool); ok {
		return []string{"true", "false"}, cobra.ShellCompDirectiveNoFileComp
	}
	return field.Options, cobra.ShellCompDirectiveNoFileComp
}

func success(format string, args ...any) {
	fmt.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), fmt.Sprintf(format, args...))
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration",
}

var configInfoCmd = &cobra.Command{
	Use:               "info [key...]",
	Short:             "Describe the configuration fields",
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		keys := lo.Ternary(len(args) > 0, args, config.Keys())

		fields := make([]*config.Field, 0, len(keys))
		for _, k := range keys {
			field, err := config.Lookup(k)
			handleErr(err)
			fields = append(fields, &field)
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(fields))
			return
		}

		for i, field := range fields {
			if i > 0 {
				cmd.Println()
			}
			cmd.Println(field.Pretty())
		}
	},
}

var configSetCmd = &cobra.Command{
	Use:               "set <key> <value...>",
	Short:             "Change a setting and save it",
	Example:           "  listentui config set stream.station kpop\n  listentui config set player.extra_args --no-video --msg-level=all=no",
	Args:              cobra.MinimumNArgs(2),
	ValidArgsFunction: completionConfigValues,
	Run: func(cmd *cobra.Command, args []string) {
		field, err := config.Lookup(args[0])
		handleErr(err)

		value, err := field.Parse(args[1:])
		handleErr(err)
		handleErr(config.Persist(field.Key, value))

		success("set %s to %s", style.Fg(color.Purple)(field.Key), style.Fg(color.Yellow)(fmt.Sprint(value)))
	},
}

var configGetCmd = &cobra.Command{
	Use:               "get <key>",
	Short:             "Print the current value of a setting",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		field, err := config.Lookup(args[0])
		handleErr(err)
		cmd.Println(viper.Get(field.Key))
	},
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Save the current configuration to the config file",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("force")) {
			if err := config.Remove(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				handleErr(err)
			}
		}
		handleErr(viper.SafeWriteConfig())
		success("wrote config to %s", config.File())
	},
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Delete the config file",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(config.Remove())
		success("deleted %s", config.File())
	},
}

var configResetCmd = &cobra.Command{
	Use:               "reset [key...]",
	Short:             "Restore default values",
	ValidArgsFunction: completionConfigKeys,
	PreRun: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 && !lo.Must(cmd.Flags().GetBool("all")) {
			handleErr(errors.New("name the keys to reset or pass --all"))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(config.Restore(args...))

		if len(args) == 0 {
			success("reset all config values")
			return
		}
		for _, k := range args {
			success("reset %s to %s", style.Fg(color.Purple)(k), style.Fg(color.Yellow)(fmt.Sprint(config.Default[k].Value)))
		}
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInfoCmd, configSetCmd, configGetCmd, configWriteCmd, configDeleteCmd, configResetCmd)

	configInfoCmd.Flags().BoolP("json", "j", false, "Print the fields as JSON")
	configInfoCmd.SetOut(os.Stdout)
	configGetCmd.SetOut(os.Stdout)
	configWriteCmd.Flags().BoolP("force", "f", false, "Replace the existing config file")
	configResetCmd.Flags().BoolP("all", "a", false, "Reset every key")
}
