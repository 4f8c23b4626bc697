package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/listentui/listentui/color"
	"github.com/listentui/listentui/config"
	"github.com/listentui/listentui/icon"
	"github.com/listentui/listentui/key"
	"github.com/listentui/listentui/listen"
	"github.com/listentui/listentui/style"
	"github.com/listentui/listentui/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringP("username", "u", "", "Account name or email")
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to favorite and request songs",
	Long:  "Sign in to favorite and request songs. The password is kept in the system keyring.",
	Run: func(cmd *cobra.Command, args []string) {
		username := lo.Must(cmd.Flags().GetString("username"))
		if username == "" {
			prompt := &survey.Input{
				Message: "Username",
				Default: viper.GetString(key.ClientUsername),
			}
			handleErr(survey.AskOne(prompt, &username, survey.WithValidator(survey.Required)))
		}

		var password string
		handleErr(survey.AskOne(&survey.Password{Message: "Password"}, &password, survey.WithValidator(survey.Required)))

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		erase := util.PrintErasable(fmt.Sprintf("%s Signing in...", icon.Get(icon.Progress)))
		client := listen.New(listen.Options{})
		user, err := client.Login(ctx, username, password)
		erase()
		handleErr(err)

		handleErr(listen.SaveCredentials(client.Credentials().MustGet()))
		handleErr(config.Persist(key.ClientUsername, username))

		fmt.Printf(
			"%s signed in as %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(lo.CoalesceOrEmpty(user.DisplayName, user.Username)),
		)
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored account",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(listen.DeleteCredentials())
		handleErr(config.Persist(key.ClientUsername, ""))

		fmt.Printf("%s signed out\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}
