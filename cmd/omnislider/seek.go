package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ericyan/omnislider/input"
	"github.com/ericyan/omnislider/internal/config"
	"github.com/ericyan/omnislider/internal/log"
	"github.com/ericyan/omnislider/internal/memplayer"
	"github.com/ericyan/omnislider/internal/metrics"
	"github.com/ericyan/omnislider/internal/timefmt"
	"github.com/ericyan/omnislider/schedule"
	"github.com/ericyan/omnislider/timeslider"
)

func newSeekCmd(root *rootOptions) *cobra.Command {
	opts := &playerOptions{}
	duration := time.Hour

	cmd := &cobra.Command{
		Use:   "seek <h:mm:ss|percent%>",
		Short: "Seek the player to a position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, mem, err := opts.open(cmd, func(m *memplayer.Player) { m.SetDuration(duration) })
			if err != nil {
				return err
			}
			defer closePlayer(p)

			if err := seek(cmd.Context(), root.cfg, p, args[0]); err != nil {
				return err
			}

			printActions(cmd.OutOrStdout(), mem)
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().DurationVar(&duration, "duration", duration, "media duration of the dry-run player")

	return cmd
}

// seek performs a single discrete change of the time slider on its own
// event loop.
func seek(ctx context.Context, cfg config.Config, p player, target string) error {
	loop := schedule.NewLoop(schedule.WithFrameInterval(cfg.Loop.FrameInterval))
	element := input.NewTarget()
	bounds := func() input.Rect { return input.Rect{Width: 100, Height: 1} }

	var parseErr error
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return loop.Run(ctx)
	})
	g.Go(func() error {
		defer loop.Close()

		done := make(chan struct{})
		loop.Post(func() {
			defer close(done)

			ts := timeslider.New(loop, p, metrics.Instrument(p), element, bounds,
				timeslider.WithOptions(cfg.Time.Options()),
				timeslider.WithLogger(log.WithComponent("timeslider")))
			defer ts.Close()

			percent, err := parseSeekTarget(target, ts.TimeToPercent)
			if err != nil {
				parseErr = err
				return
			}
			ts.SeekTo(percent)
		})

		select {
		case <-done:
			return parseErr
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	return g.Wait()
}

// parseSeekTarget accepts either a percent ("42.5%") or a position
// ("1:02:03").
func parseSeekTarget(s string, toPercent func(time.Duration) float64) (float64, error) {
	if p, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, fmt.Errorf("parse percent %q: %w", s, err)
		}
		if v < 0 || v > 100 {
			return 0, fmt.Errorf("percent %q out of range", s)
		}
		return v, nil
	}

	d, err := timefmt.ParseDuration(s)
	if err != nil {
		return 0, err
	}

	return toPercent(d), nil
}
