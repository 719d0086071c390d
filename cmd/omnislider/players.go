package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ericyan/omnislider/gcast"
	"github.com/ericyan/omnislider/internal/log"
	"github.com/ericyan/omnislider/mpris"
)

// defaultCastTimeout bounds Cast device discovery and connection.
const defaultCastTimeout = 3 * time.Second

func newPlayersCmd() *cobra.Command {
	var cast bool
	timeout := defaultCastTimeout

	cmd := &cobra.Command{
		Use:   "players",
		Short: "List MPRIS players on the session bus, or Cast devices with --cast",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cast {
				ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
				defer cancel()

				devs, err := gcast.Discover(ctx)
				if err != nil {
					return err
				}
				for _, dev := range devs {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", dev.Name, dev.Model, dev.Addr())
				}
				return nil
			}

			dests, err := mpris.Discover()
			if err != nil {
				return err
			}

			for _, dest := range dests {
				fmt.Fprintln(cmd.OutOrStdout(), dest)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&cast, "cast", false, "discover Google Cast devices on the local network")
	cmd.Flags().DurationVar(&timeout, "timeout", timeout, "how long to browse for Cast devices")

	return cmd
}

// openPlayer connects to the MPRIS player called name, or to the first
// one found if name is empty.
func openPlayer(name string) (*mpris.Player, error) {
	dests, err := mpris.Discover()
	if err != nil {
		return nil, err
	}

	dest, err := mpris.Resolve(dests, name)
	if err != nil {
		return nil, err
	}

	l := log.WithComponent("mpris")
	l.Info().Str("player", dest).Msg("using player")

	return mpris.NewPlayer(dest, mpris.WithLogger(l))
}

// openCastPlayer connects to the Cast device called name, or to the first
// one found if name is empty.
func openCastPlayer(ctx context.Context, name string, timeout time.Duration) (*gcast.Sender, error) {
	browse, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	devs, err := gcast.Discover(browse)
	if err != nil {
		return nil, err
	}

	dev, err := gcast.Resolve(devs, name)
	if err != nil {
		return nil, err
	}

	l := log.WithComponent("gcast")
	l.Info().Str("device", dev.Name).Str("addr", dev.Addr()).Msg("using cast device")

	connect, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return gcast.Connect(connect, dev.Addr(), gcast.WithLogger(l))
}
