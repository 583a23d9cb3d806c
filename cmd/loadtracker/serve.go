package main

import (
	"context"
	"fmt"
	"os"
	"reflect"

	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/fleet"
	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/tracker"
	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/database"
	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/queue"
	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/storage"
	"github.com/spf13/cobra"
)

const (
	apiPrefix       = "/_api/fleet"
	loadEventsQueue = "fleet-load-events"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	typeScriptPath := ""

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Migrate the database and serve the fleet API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			config := opts.config

			databaseConfigFuncs := []database.ServiceConfigFunc{}
			if config.DatabaseLogQueries {
				databaseConfigFuncs = append(databaseConfigFuncs, database.WithLogger(opts.logger))
			}

			databaseService, err := config.Database(databaseConfigFuncs...)
			if err != nil {
				return err
			}
			defer func() {
				_ = databaseService.Close()
			}()

			if err := fleet.Migrate(ctx, databaseService); err != nil {
				return err
			}

			cacheDriver, err := config.Cache(ctx)
			if err != nil {
				return err
			}

			queueDriver, err := config.Queue()
			if err != nil {
				return err
			}

			events, err := queue.NewQueue[fleet.LoadEvent](ctx, queueDriver, loadEventsQueue)
			if err != nil {
				return err
			}

			storageDriver, err := config.Storage()
			if err != nil {
				return err
			}

			service := fleet.NewService(
				databaseService,
				cacheDriver,
				events,
				storageDriver,
				fleet.WithLogger(opts.logger),
			)

			configFuncs := []tracker.ConfigurationFunc{
				tracker.WithLogger(opts.logger),
				tracker.WithRouter(apiPrefix, fleet.NewAPI(service), fleet.ErrorHandler(opts.logger)),
				tracker.WithQueue(ctx, events, func(ctx context.Context, event fleet.LoadEvent) error {
					if err := service.HandleLoadEvent(ctx, event); err != nil {
						opts.logger.ErrorContext(ctx, "Handle Load Event",
							"load", event.LoadID,
							"error", err,
						)
					}

					return nil
				}),
				tracker.WithBackgroundJobs(cacheDriver, service.BackgroundJobs()),
			}

			if localStorage, ok := storageDriver.(*storage.DriverLocal); ok {
				configFuncs = append(configFuncs, tracker.WithHandler(tracker.StoragePath, localStorage))
			}

			if typeScriptPath != "" {
				file, err := os.Create(typeScriptPath)
				if err != nil {
					return fmt.Errorf("typescript output: %w", err)
				}
				defer func() {
					_ = file.Close()
				}()

				configFuncs = append(configFuncs, tracker.WithTypeScriptOutput("LoadTracker", file, map[string]reflect.Type{
					"Customer":     reflect.TypeFor[fleet.Customer](),
					"Driver":       reflect.TypeFor[fleet.Driver](),
					"Invoice":      reflect.TypeFor[fleet.Invoice](),
					"Load":         reflect.TypeFor[fleet.Load](),
					"LoadDocument": reflect.TypeFor[fleet.LoadDocument](),
					"LoadEvent":    reflect.TypeFor[fleet.LoadEvent](),
					"MapMarker":    reflect.TypeFor[fleet.MapMarker](),
				}))
			}

			app, err := tracker.NewApp(ctx, config, configFuncs...)
			if err != nil {
				return err
			}

			return app.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&typeScriptPath, "typescript", "", "write the TypeScript client for the fleet API to this file")

	return cmd
}

func newPingCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the configured database and storage are reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			databaseService, err := opts.config.Database()
			if err != nil {
				return err
			}
			defer func() {
				_ = databaseService.Close()
			}()

			if err := databaseService.Ping(cmd.Context()); err != nil {
				return fmt.Errorf("ping %s: %w", databaseService.Driver().Name(), err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", databaseService.Driver().Name())

			storageDriver, err := opts.config.Storage()
			if err != nil {
				return err
			}

			if err := storageDriver.IsReady(cmd.Context()); err != nil {
				return fmt.Errorf("ping %s storage: %w", opts.config.AppDriverStorage, err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s storage: ok\n", opts.config.AppDriverStorage)

			return nil
		},
	}
}
