package playback

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/listentui/listentui/player"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"
)

func TestSupervisorStart(t *testing.T) {
	Convey("Given a stopped supervisor", t, func() {
		factory := &fakeFactory{}
		rec := &recorder{}
		sup := New(testOptions(), factory.create, rec.sink)
		So(sup.State(), ShouldEqual, Stopped)
		So(sup.Backend(), ShouldBeNil)

		Convey("Starting should play the stream once", func() {
			So(sup.start(), ShouldBeNil)
			So(sup.State(), ShouldEqual, Playing)
			So(factory.count(), ShouldEqual, 1)
			So(factory.last().plays, ShouldResemble, []time.Duration{time.Minute})
			So(rec.all(), ShouldResemble, []Event{Started{}})
		})

		Convey("Starting twice should fail", func() {
			So(sup.start(), ShouldBeNil)
			So(sup.start(), ShouldNotBeNil)
			So(factory.count(), ShouldEqual, 1)
		})

		Convey("A startup timeout should be fatal and not retried", func() {
			factory.setConfigure(func(b *fakeBackend) { b.playErr = player.ErrPlaybackTimeout })

			err := sup.start()
			So(errors.Is(err, player.ErrPlaybackTimeout), ShouldBeTrue)
			So(sup.State(), ShouldEqual, Failed)
			So(factory.count(), ShouldEqual, 1)
			So(factory.last().isTerminated(), ShouldBeTrue)

			events := rec.all()
			So(events, ShouldHaveLength, 1)
			So(events[0], ShouldHaveSameTypeAs, Fail{})
		})

		Convey("Close while starting should stop the fresh backend", func() {
			entered, release := make(chan struct{}), make(chan struct{})
			factory.setConfigure(func(b *fakeBackend) {
				b.playHook = func() { <-b.closed }
				close(entered)
				<-release
			})

			started := make(chan error, 1)
			go func() { started <- sup.start() }()
			<-entered

			So(sup.Close(), ShouldBeNil)
			close(release)

			select {
			case err := <-started:
				So(err, ShouldEqual, ErrNotStarted)
			case <-time.After(2 * time.Second):
				So("start still blocked", ShouldBeEmpty)
			}
			So(factory.last().isTerminated(), ShouldBeTrue)
			So(sup.State(), ShouldEqual, Stopped)
		})

		Convey("Operations before start should be rejected", func() {
			So(sup.Play(), ShouldEqual, ErrNotStarted)
			So(sup.Pause(), ShouldEqual, ErrNotStarted)
			So(sup.Restart(time.Second), ShouldEqual, ErrNotStarted)
			So(sup.Paused(), ShouldEqual, player.Unknown)
		})
	})
}

func TestSupervisorLifecycle(t *testing.T) {
	Convey("Given a supervisor running its background goroutines", t, func() {
		defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

		factory := &fakeFactory{}
		rec := &recorder{}
		opts := testOptions()
		opts.PollInterval = 5 * time.Millisecond
		opts.MetadataInterval = 5 * time.Millisecond
		sup := New(opts, factory.create, rec.sink)

		So(sup.Start(context.Background()), ShouldBeNil)

		Convey("New stream metadata should be announced once", func() {
			meta := player.Metadata{Title: "Secret Base", Artist: "ZONE"}
			factory.last().set(func(f *fakeBackend) { f.meta = mo.Some(meta) })

			isNewSong := func(e Event) bool { _, ok := e.(NewSong); return ok }
			deadline := time.Now().Add(2 * time.Second)
			for rec.count(isNewSong) == 0 && time.Now().Before(deadline) {
				time.Sleep(5 * time.Millisecond)
			}
			time.Sleep(30 * time.Millisecond)

			So(rec.count(isNewSong), ShouldEqual, 1)
			So(sup.Close(), ShouldBeNil)
		})

		Convey("Close should stop everything and terminate the backend", func() {
			So(sup.Close(), ShouldBeNil)
			So(sup.State(), ShouldEqual, Stopped)
			So(factory.last().isTerminated(), ShouldBeTrue)
			So(sup.Play(), ShouldEqual, ErrNotStarted)
		})
	})
}

func TestSupervisorControls(t *testing.T) {
	Convey("Given a playing supervisor", t, func() {
		sup, factory, _ := startedSupervisor()
		b := factory.last()

		Convey("Pause should pause the backend", func() {
			So(sup.Pause(), ShouldBeNil)
			So(sup.State(), ShouldEqual, Paused)
			So(b.Paused(), ShouldEqual, player.True)
		})

		Convey("Play while playing should not restart", func() {
			So(sup.Play(), ShouldBeNil)
			So(b.playCount(), ShouldEqual, 1)
		})

		Convey("Play after a pause should re-attach with a soft restart", func() {
			So(sup.Pause(), ShouldBeNil)
			So(sup.Play(), ShouldBeNil)
			So(b.playCount(), ShouldEqual, 2)
			So(b.plays[1], ShouldEqual, DefaultPolicy.BaseTimeout)
			So(b.Paused(), ShouldEqual, player.False)
			So(sup.State(), ShouldEqual, Playing)
			So(factory.count(), ShouldEqual, 1)
		})

		Convey("PlayPause should toggle", func() {
			So(sup.PlayPause(), ShouldBeNil)
			So(sup.State(), ShouldEqual, Paused)
			So(sup.PlayPause(), ShouldBeNil)
			So(sup.State(), ShouldEqual, Playing)
			So(b.playCount(), ShouldEqual, 2)
		})

		Convey("A soft restart should keep the backend and its pause state", func() {
			So(sup.Pause(), ShouldBeNil)
			So(sup.Restart(10*time.Second), ShouldBeNil)
			So(factory.count(), ShouldEqual, 1)
			So(b.plays[1], ShouldEqual, 10*time.Second)
			So(b.Paused(), ShouldEqual, player.True)
			So(sup.State(), ShouldEqual, Paused)
		})

		Convey("A hard restart should replace the backend and keep the volume", func() {
			So(sup.SetVolume(35), ShouldBeNil)
			So(sup.HardRestart(10*time.Second), ShouldBeNil)
			So(factory.count(), ShouldEqual, 2)
			So(b.isTerminated(), ShouldBeTrue)
			So(sup.Backend(), ShouldEqual, factory.last())
			So(factory.last().Volume(), ShouldEqual, 35)
			So(sup.State(), ShouldEqual, Playing)
		})

		Convey("A hard restart should keep a paused stream paused", func() {
			So(sup.Pause(), ShouldBeNil)
			So(sup.HardRestart(10*time.Second), ShouldBeNil)
			So(factory.last().Paused(), ShouldEqual, player.True)
			So(sup.State(), ShouldEqual, Paused)
		})

		Convey("Close during a hard restart should stop the replacement backend", func() {
			entered, release := make(chan struct{}), make(chan struct{})
			factory.setConfigure(func(nb *fakeBackend) {
				nb.playHook = func() { <-nb.closed }
				close(entered)
				<-release
			})

			restarted := make(chan error, 1)
			go func() { restarted <- sup.HardRestart(time.Minute) }()
			<-entered

			So(sup.Close(), ShouldBeNil)
			close(release)

			select {
			case err := <-restarted:
				So(err, ShouldEqual, ErrNotStarted)
			case <-time.After(2 * time.Second):
				So("hard restart still blocked", ShouldBeEmpty)
			}
			So(factory.last().isTerminated(), ShouldBeTrue)
		})

		Convey("A failed restart should return the timeout", func() {
			b.set(func(f *fakeBackend) { f.playErr = player.ErrPlaybackTimeout })
			err := sup.Restart(time.Second)
			So(errors.Is(err, player.ErrPlaybackTimeout), ShouldBeTrue)
			So(sup.Restarting(), ShouldBeFalse)
		})

		Convey("SafeRestart should swallow failures", func() {
			b.set(func(f *fakeBackend) { f.playErr = player.ErrPlaybackTimeout })
			So(func() { sup.SafeRestart() }, ShouldNotPanic)
			So(func() { sup.SafeHardRestart() }, ShouldNotPanic)
			So(factory.count(), ShouldEqual, 2)
		})

		Convey("Snapshot should describe the supervisor", func() {
			So(sup.Mute(), ShouldBeNil)
			snap := sup.Snapshot()
			So(snap.State, ShouldEqual, Playing)
			So(snap.Muted, ShouldBeTrue)
			So(snap.Volume, ShouldEqual, 0)
			So(snap.Paused, ShouldEqual, player.False)
			So(snap.Retries, ShouldEqual, 0)
		})
	})
}

func TestSupervisorVolume(t *testing.T) {
	Convey("Given a playing supervisor at volume 80", t, func() {
		sup, factory, _ := startedSupervisor()
		b := factory.last()
		So(sup.Volume(), ShouldEqual, 80)

		Convey("Raising and lowering should clamp to 0-100", func() {
			So(sup.RaiseVolume(50), ShouldBeNil)
			So(sup.Volume(), ShouldEqual, 100)
			So(b.Volume(), ShouldEqual, 100)

			So(sup.LowerVolume(500), ShouldBeNil)
			So(sup.Volume(), ShouldEqual, 0)
			So(b.Volume(), ShouldEqual, 0)
		})

		Convey("Random adjustments should never leave the range", func() {
			rng := rand.New(rand.NewSource(7))
			for i := 0; i < 500; i++ {
				amount := rng.Intn(80)
				if rng.Intn(2) == 0 {
					_ = sup.RaiseVolume(amount)
				} else {
					_ = sup.LowerVolume(amount)
				}
				So(sup.Volume(), ShouldBeBetweenOrEqual, 0, 100)
			}
		})

		Convey("Mute then unmute should restore the exact volume", func() {
			So(sup.SetVolume(37), ShouldBeNil)
			So(sup.Mute(), ShouldBeNil)
			So(sup.Volume(), ShouldEqual, 0)
			So(b.Volume(), ShouldEqual, 0)
			So(sup.Muted(), ShouldBeTrue)

			So(sup.Unmute(), ShouldBeNil)
			So(sup.Volume(), ShouldEqual, 37)
			So(b.Volume(), ShouldEqual, 37)
			So(sup.Muted(), ShouldBeFalse)
		})

		Convey("Unmuting a volume of zero should give 1", func() {
			So(sup.SetVolume(0), ShouldBeNil)
			So(sup.ToggleMute(), ShouldBeNil)
			So(sup.ToggleMute(), ShouldBeNil)
			So(sup.Volume(), ShouldEqual, 1)
		})

		Convey("Raising while muted should start from the muted volume", func() {
			So(sup.Mute(), ShouldBeNil)
			So(sup.RaiseVolume(5), ShouldBeNil)
			So(sup.Volume(), ShouldEqual, 85)
			So(sup.Muted(), ShouldBeFalse)
		})

		Convey("Muting twice should keep the remembered volume", func() {
			So(sup.Mute(), ShouldBeNil)
			So(sup.Mute(), ShouldBeNil)
			So(sup.Unmute(), ShouldBeNil)
			So(sup.Volume(), ShouldEqual, 80)
		})
	})
}
