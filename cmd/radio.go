package cmd

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/listentui/listentui/constant"
	"github.com/listentui/listentui/gateway"
	"github.com/listentui/listentui/history"
	"github.com/listentui/listentui/key"
	"github.com/listentui/listentui/listen"
	"github.com/listentui/listentui/log"
	"github.com/listentui/listentui/playback"
	"github.com/listentui/listentui/player"
	"github.com/listentui/listentui/presence"
	"github.com/listentui/listentui/tui"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
)

// runRadio plays the configured station until the interface is closed.
func runRadio(ctx context.Context) error {
	relay := tui.NewRelay()

	playerOpts := player.OptionsFromConfig()
	sup := playback.New(playback.OptionsFromConfig(), player.NewFactory(playerOpts), relay.Playback)
	previewer := playback.NewPreviewer(sup, func(volume int) player.Backend {
		return player.NewMPV(playerOpts.WithVolume(volume))
	}, time.Duration(viper.GetInt(key.PreviewTimeout))*time.Second)

	defer func() {
		previewer.Wait()
		if err := sup.Close(); err != nil {
			log.Warnf("close player: %v", err)
		}
	}()

	client := listen.New(listen.Options{})
	resumeSession(ctx, client)

	sinks := []func(listen.NowPlaying){relay.NowPlaying, recordHistory}
	if viper.GetBool(key.PresenceEnable) {
		p := presence.New(presence.OptionsFromConfig())
		defer func() { _ = p.Close() }()
		sinks = append(sinks, p.Update)
	}

	station := viper.GetString(key.StreamStation)
	feed := gateway.New(gateway.Options{URL: gatewayURL(station)}, func(np listen.NowPlaying) {
		for _, sink := range sinks {
			sink(np)
		}
	})

	feedCtx, cancelFeed := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = feed.Run(feedCtx)
	}()
	defer func() {
		cancelFeed()
		wg.Wait()
	}()

	return tui.Run(ctx, tui.Options{
		Radio:     sup,
		Previewer: previewer,
		Library:   client,
		Relay:     relay,
		Station:   station,
	})
}

func gatewayURL(station string) string {
	if s, ok := constant.Stations[station]; ok {
		return s.Gateway
	}
	return constant.Stations[constant.StationJPop].Gateway
}

func recordHistory(np listen.NowPlaying) {
	if err := history.Record(np, time.Now()); err != nil {
		log.Warnf("record history: %v", err)
	}
}

// resumeSession logs in with the stored credentials. The radio works without an account,
// so failures are only logged.
func resumeSession(ctx context.Context, client *listen.Client) {
	creds, err := listen.LoadCredentials()
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			log.Warnf("load credentials: %v", err)
		}
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	user, err := client.Resume(ctx, creds)
	if err != nil {
		log.Warnf("resume session of %s: %v", creds.Username, err)
		return
	}
	log.Infof("logged in as %s", user.Username)

	// keep the refreshed token for the next run
	if fresh, ok := client.Credentials().Get(); ok && fresh.Token != creds.Token {
		if err := listen.SaveCredentials(fresh); err != nil {
			log.Warnf("save credentials: %v", err)
		}
	}
}
