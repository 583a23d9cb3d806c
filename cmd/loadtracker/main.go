package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/tracker"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	envFiles []string
	verbose  bool
	config   tracker.AppConfig
	logger   *slog.Logger
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "loadtracker",
		Short:         "Dispatch, billing and document tracking for carriers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			config, err := tracker.LoadConfig(afero.NewOsFs(), opts.envFiles...)
			if err != nil {
				return err
			}
			opts.config = config

			return nil
		},
	}

	cmd.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", []string{".env", ".env.local"}, "dotenv files to load, later files win")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newPingCommand(opts))
	cmd.AddCommand(newSQLCommand(opts))

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
