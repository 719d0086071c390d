// Command omnislider drives media players through the slider engine.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ericyan/omnislider/internal/config"
	"github.com/ericyan/omnislider/internal/log"
)

type rootOptions struct {
	configPath string
	logLevel   string

	cfg config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "omnislider",
		Short:         "Seek, volume and speed sliders for media players",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if opts.logLevel != "" {
				cfg.Log.Level = opts.logLevel
			}
			opts.cfg = cfg

			log.Configure(log.Config{Level: cfg.Log.Level, Output: cmd.ErrOrStderr()})
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to the YAML configuration file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newPlayersCmd(),
		newChaptersCmd(),
		newReplayCmd(opts),
		newSeekCmd(opts),
	)

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger := log.WithComponent("cli")
		logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
