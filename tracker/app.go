package tracker

import (
	"context"
	"log/slog"
	"net/http"
	"reflect"

	"github.com/google/uuid"
	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/cache"
	"github.com/lunagic/poseidon/poseidon"
)

// StoragePath is where the local storage driver is mounted.
const StoragePath = "/storage/"

type ConfigurationFunc func(app *App) error

func WithLogger(logger *slog.Logger) ConfigurationFunc {
	return func(app *App) error {
		app.logger = logger

		return nil
	}
}

type App struct {
	config           AppConfig
	instanceUUID     string
	logger           *slog.Logger
	handlers         map[string]http.Handler
	middlewares      poseidon.Middlewares
	autoRouter       autoRouterConfig
	typeScript       *typeScriptOutput
	jobs             []BackgroundJob
	jobsCacheService cache.Driver
	consumers        []func(logger *slog.Logger)
}

func NewApp(
	ctx context.Context,
	config AppConfig,
	configFuncs ...ConfigurationFunc,
) (
	*App,
	error,
) {
	app := &App{
		config:       config,
		instanceUUID: uuid.NewString(),
		logger:       slog.Default(),
		handlers:     map[string]http.Handler{},
		autoRouter: autoRouterConfig{
			argumentMapping: map[reflect.Type]func(w http.ResponseWriter, r *http.Request) (reflect.Value, error){},
		},
	}

	// Every router method may ask for the request context
	configFuncs = append([]ConfigurationFunc{
		WithRouterArgumentProvider(func(w http.ResponseWriter, r *http.Request) (context.Context, error) {
			return r.Context(), nil
		}),
	}, configFuncs...)

	for _, configFunc := range configFuncs {
		if err := configFunc(app); err != nil {
			return nil, err
		}
	}

	if err := app.validateRouter(); err != nil {
		return nil, err
	}

	if err := app.generateTypeScript(); err != nil {
		return nil, err
	}

	for _, consumer := range app.consumers {
		go consumer(app.logger)
	}

	return app, nil
}

// Start runs the background jobs and serves HTTP until ctx is done.
func (app *App) Start(ctx context.Context) error {
	if err := app.Background(ctx); err != nil {
		return err
	}

	return app.Serve(ctx)
}
