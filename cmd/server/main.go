package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pradeeppeddineni/justus/internal/app"
	"github.com/pradeeppeddineni/justus/internal/config"
	"github.com/pradeeppeddineni/justus/internal/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:           "justus-server",
		Short:         "Room synchronization server for the two-person justus experience",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := log.New(logLevel)

			cfg, path, err := config.Load(logger, configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if logLevel == "" && cfg.LogLevel != "" {
				logger = log.New(cfg.LogLevel)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application := app.New(&cfg, logger)

			logger.Info().Str("addr", cfg.Addr).Str("config", path).Msg("starting justus server")
			if err := application.Run(ctx); err != nil {
				logger.Error().Err(err).Msg("server exited with error")
				return err
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to config.yaml")
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides config)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")

	return cmd
}
