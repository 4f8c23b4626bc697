package cmd

import (
	"encoding/json"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/listentui/listentui/filesystem"
	"github.com/listentui/listentui/inline"
	"github.com/listentui/listentui/key"
	"github.com/listentui/listentui/listen"
	"github.com/listentui/listentui/query"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(inlineCmd)

	inlineCmd.Flags().StringP("query", "q", "", "Title, artist or source to search for")
	inlineCmd.Flags().StringP("song", "S", "", "Criteria for picking a single song from the results")
	inlineCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON object")
	inlineCmd.Flags().BoolP("favorites", "f", false, "Search only your favorites (requires login)")
	inlineCmd.Flags().BoolP("request", "r", false, "Request the picked song (requires login)")
	inlineCmd.Flags().IntP("limit", "l", 0, "Limit of search results")
	inlineCmd.Flags().StringP("output", "o", "", "Write the output to a file")
	lo.Must0(inlineCmd.MarkFlagRequired("query"))
	lo.Must0(viper.BindPFlag(key.SearchLimit, inlineCmd.Flags().Lookup("limit")))

	_ = inlineCmd.RegisterFlagCompletionFunc("query", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	})
}

var inlineCmd = &cobra.Command{
	Use:     "inline",
	Aliases: []string{"search"},
	Short:   "Search songs without the interface",
	Long: `Search songs without the interface, for scripts.

Song pickers:
  first - first song of the results
  last - last song of the results
  exact - song whose title matches the query exactly
  [number] - song at the index (starting from 0)`,
	Example: "  listentui inline -q 'secret base' -S exact -r",
	PreRun: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("request")) {
			lo.Must0(cmd.MarkFlagRequired("song"))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		q := lo.Must(cmd.Flags().GetString("query"))

		picker := mo.None[inline.SongPicker]()
		if kind := lo.Must(cmd.Flags().GetString("song")); kind != "" {
			fn, err := inline.ParseSongPicker(kind, q)
			handleErr(err)
			picker = mo.Some(fn)
		}

		var out io.Writer = os.Stdout
		if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
			file, err := filesystem.API().Create(output)
			handleErr(err)
			defer func() { _ = file.Close() }()
			out = file
		}

		favorites := lo.Must(cmd.Flags().GetBool("favorites"))
		request := lo.Must(cmd.Flags().GetBool("request"))

		client := listen.New(listen.Options{})
		if favorites || request {
			resumeSession(cmd.Context(), client)
		}

		_ = query.Remember(q, 1)

		handleErr(inline.Run(cmd.Context(), &inline.Options{
			Out:       out,
			Library:   client,
			Query:     q,
			Limit:     viper.GetInt(key.SearchLimit),
			Favorites: favorites,
			Json:      lo.Must(cmd.Flags().GetBool("json")),
			Picker:    picker,
			Request:   request,
			Format:    listen.FormatFromConfig(),
		}))
	},
}

func init() {
	inlineCmd.AddCommand(inlineSchemaCmd)
}

var inlineSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the inline output",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			name := t.Name()
			switch strings.ToLower(name) {
			case "song", "output":
				return "inline." + name
			}
			return name
		}

		handleErr(json.NewEncoder(os.Stdout).Encode(reflector.Reflect(&inline.Output{})))
	},
}
