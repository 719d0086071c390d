package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ericyan/omnislider"
	"github.com/ericyan/omnislider/input"
	"github.com/ericyan/omnislider/internal/config"
	"github.com/ericyan/omnislider/internal/log"
	"github.com/ericyan/omnislider/internal/memplayer"
	"github.com/ericyan/omnislider/internal/metrics"
	"github.com/ericyan/omnislider/mediaslider"
	"github.com/ericyan/omnislider/schedule"
	"github.com/ericyan/omnislider/slider"
	"github.com/ericyan/omnislider/timeslider"
)

// syncInterval is how often the slider follows the player during a
// replay.
const syncInterval = 250 * time.Millisecond

// player is a media player whose chapters can be supplied from a file.
type player interface {
	omnislider.MediaPlayer
	SetChapters(chs []omnislider.Chapter)
}

type playerOptions struct {
	name         string
	dryRun       bool
	cast         bool
	castTimeout  time.Duration
	chaptersFrom string
}

func (o *playerOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.name, "player", "", "MPRIS player, or Cast device with --cast, to control (default: first found)")
	cmd.Flags().BoolVar(&o.dryRun, "dry-run", false, "use an in-memory player and print the actions it receives")
	cmd.Flags().BoolVar(&o.cast, "cast", false, "control a Google Cast device instead of an MPRIS player")
	cmd.Flags().DurationVar(&o.castTimeout, "cast-timeout", defaultCastTimeout, "how long to browse for and connect to the Cast device")
	cmd.Flags().StringVar(&o.chaptersFrom, "chapters-from", "", "read chapters from this audio file")
}

// open returns the player to drive. seed initialises the in-memory player
// of a dry run.
func (o *playerOptions) open(cmd *cobra.Command, seed func(*memplayer.Player)) (player, *memplayer.Player, error) {
	var p player
	var mem *memplayer.Player

	switch {
	case o.dryRun:
		mem = memplayer.New()
		seed(mem)
		p = mem
	case o.cast:
		cp, err := openCastPlayer(cmd.Context(), o.name, o.castTimeout)
		if err != nil {
			return nil, nil, err
		}
		p = cp
	default:
		mp, err := openPlayer(o.name)
		if err != nil {
			return nil, nil, err
		}
		p = mp
	}

	if o.chaptersFrom != "" {
		chs, err := loadChapters(cmd, o.chaptersFrom)
		if err != nil {
			closePlayer(p)
			return nil, nil, err
		}
		p.SetChapters(chs)
	}

	return p, mem, nil
}

// closePlayer releases the connection of players that hold one.
func closePlayer(p player) {
	if c, ok := p.(io.Closer); ok {
		if err := c.Close(); err != nil {
			logger := log.WithComponent("cli")
			logger.Warn().Err(err).Msg("close player")
		}
	}
}

func printActions(w io.Writer, mem *memplayer.Player) {
	if mem == nil {
		return
	}
	for _, a := range mem.Actions() {
		fmt.Fprintln(w, a)
	}
}

func newReplayCmd(root *rootOptions) *cobra.Command {
	opts := &playerOptions{}
	var frames bool

	cmd := &cobra.Command{
		Use:   "replay <script.yaml>",
		Short: "Replay a recorded input session against a time slider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := LoadScript(args[0])
			if err != nil {
				return err
			}

			p, mem, err := opts.open(cmd, script.Media.seed)
			if err != nil {
				return err
			}
			defer closePlayer(p)

			r := &replay{
				cfg:    root.cfg,
				script: script,
				player: p,
				out:    cmd.OutOrStdout(),
				frames: frames,
			}
			if err := r.run(cmd.Context()); err != nil {
				return err
			}

			printActions(cmd.OutOrStdout(), mem)
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&frames, "frames", false, "print every published frame")

	return cmd
}

func (m ScriptMedia) seed(p *memplayer.Player) {
	p.SetDuration(m.Duration)
	p.SetCurrentTime(m.Current)
	p.SetBufferedEnd(m.Buffered)
	p.SetPlaying(m.Playing)
	p.SetLive(m.Live, false)
	if m.Volume > 0 {
		p.SetVolumeLevel(m.Volume)
	}
	if m.Rate > 0 {
		p.SetPlaybackRate(m.Rate)
	}
	p.ClearActions()
}

type replay struct {
	cfg    config.Config
	script *Script
	player omnislider.MediaPlayer
	out    io.Writer
	frames bool
}

func (r *replay) run(ctx context.Context) error {
	loop := schedule.NewLoop(schedule.WithFrameInterval(r.cfg.Loop.FrameInterval))

	targets := map[string]*input.Target{
		targetElement:  input.NewTarget(),
		targetDocument: input.NewTarget(),
		targetSurface:  input.NewTarget(),
		targetVolume:   input.NewTarget(),
		targetSpeed:    input.NewTarget(),
	}
	remote := metrics.Instrument(r.player)

	opts := []timeslider.Option{
		timeslider.WithOptions(r.cfg.Time.Options()),
		timeslider.WithDocument(targets[targetDocument]),
		timeslider.WithMoveInterval(r.cfg.Pointer.MoveInterval),
		timeslider.WithLogger(log.WithComponent("timeslider")),
	}
	if r.cfg.Time.SwipeGesture {
		opts = append(opts, timeslider.WithSwipeSurface(targets[targetSurface], r.script.Surface.Rect))
	}

	ts := timeslider.New(loop, r.player, remote, targets[targetElement], r.script.Track.Rect, opts...)
	defer ts.Close()

	shared := []mediaslider.Option{
		mediaslider.WithDocument(targets[targetDocument]),
		mediaslider.WithControls(remote),
	}
	volume := mediaslider.NewVolume(loop, r.player, targets[targetVolume], r.script.Volume.Rect,
		append(append(r.cfg.Volume.Options(), shared...), mediaslider.WithLogger(log.WithComponent("volume")))...)
	defer volume.Close()
	speed := mediaslider.NewSpeed(loop, r.player, targets[targetSpeed], r.script.Speed.Rect,
		append(append(r.cfg.Speed.Options(), shared...), mediaslider.WithLogger(log.WithComponent("speed")))...)
	defer speed.Close()

	s := &sliders{time: ts, volume: volume, speed: speed}
	for name, router := range map[string]*slider.Router{"time": ts.Router(), "volume": volume.Router(), "speed": speed.Router()} {
		defer metrics.TrackDrags(router, name, loop.Now)()
	}

	if r.frames {
		ts.Sink(func(f timeslider.Frame) { printFrame(r.out, f) })
	}

	var srv *http.Server
	if addr := r.cfg.Metrics.Listen; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return loop.Run(ctx)
	})
	g.Go(func() error {
		defer func() {
			loop.Close()
			if srv != nil {
				srv.Shutdown(context.Background())
			}
		}()

		return r.feed(ctx, loop, s, targets)
	})
	if srv != nil {
		g.Go(func() error {
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}

	return g.Wait()
}

// sliders are the sliders a replay drives.
type sliders struct {
	time   *timeslider.Slider
	volume *mediaslider.Slider
	speed  *mediaslider.Slider
}

func (s *sliders) sync() {
	s.time.Sync()
	s.volume.Sync()
	s.speed.Sync()
}

// feed dispatches the script events on the loop at their offsets, then
// waits for throttled calls to settle and prints the final state.
func (r *replay) feed(ctx context.Context, loop *schedule.Loop, s *sliders, targets map[string]*input.Target) error {
	var follow func()
	follow = func() {
		s.sync()
		loop.AfterFunc(syncInterval, follow)
	}
	loop.Post(follow)

	start := time.Now()
	for _, ev := range r.script.Events {
		if err := sleep(ctx, time.Until(start.Add(ev.At))); err != nil {
			return err
		}

		target, e := targets[ev.Target], ev.Event()
		if !loop.Post(func() {
			target.Dispatch(e)
			s.sync()
		}) {
			return errors.New("event loop stopped")
		}
	}

	if err := sleep(ctx, r.settle()); err != nil {
		return err
	}

	done := make(chan struct{})
	loop.Post(func() {
		s.sync()
		printFrame(r.out, s.time.Snapshot())
		close(done)
	})

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// settle returns how long trailing throttled calls may still take after
// the last event.
func (r *replay) settle() time.Duration {
	d := max(r.cfg.Time.SeekingRequestThrottle, r.cfg.Pointer.MoveInterval, mediaslider.DefaultDispatchInterval)

	return d + r.cfg.Loop.FrameInterval
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func printFrame(w io.Writer, f timeslider.Frame) {
	chapter := "-"
	if f.ActiveSegment >= 0 && f.ActiveSegment < len(f.Segments) {
		chapter = f.Segments[f.ActiveSegment].Label
	}

	fmt.Fprintf(w, "%s\tvalue=%.2f%%\tpointer=%.2f%%\tbuffered=%.2f%%\tchapter=%s\tdragging=%t\n",
		f.Text, f.FillPercent, f.PointerPercent, f.BufferedPercent, chapter, f.Dragging)
}
