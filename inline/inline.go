// Package inline provides the implementation for the application's non-interactive, programmable execution mode.
package inline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/listentui/listentui/listen"
	"github.com/listentui/listentui/log"
)

var errNoPicker = errors.New("a song picker is required to request")

func Run(ctx context.Context, options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}
	if options.Request && options.Picker.IsAbsent() {
		return errNoPicker
	}

	songs, err := options.Library.Search(ctx, options.Query, options.Limit, options.Favorites)
	if err != nil {
		return fmt.Errorf("search %q: %w", options.Query, err)
	}

	selected := songs
	if picker, ok := options.Picker.Get(); ok {
		selected = nil
		if choice := picker(songs); choice != nil {
			selected = []*listen.Song{choice}
		}
	}

	var requested bool
	if options.Request && len(selected) > 0 {
		if _, err := options.Library.RequestSong(ctx, selected[0].ID); err != nil {
			return fmt.Errorf("request %s: %w", selected[0], err)
		}
		log.Infof("requested %s", selected[0])
		requested = true
	}

	if options.Json {
		return writeJson(options.Out, selected, requested, options)
	}

	for _, song := range selected {
		if _, err := fmt.Fprintf(options.Out, "%d\t%s\t%s\n", song.ID, song.String(), song.Link()); err != nil {
			return err
		}
	}
	return nil
}

func writeJson(out io.Writer, songs []*listen.Song, requested bool, options *Options) error {
	data, err := asJson(songs, options.Query, requested, options.Format)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
