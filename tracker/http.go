package tracker

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/lunagic/poseidon/poseidon"
)

const shutdownTimeout = time.Second * 10

func WithHandler(path string, handler http.Handler) ConfigurationFunc {
	return func(app *App) error {
		if _, found := app.handlers[path]; found {
			return fmt.Errorf("duplicate handler for %s", path)
		}

		app.handlers[path] = handler

		return nil
	}
}

func WithMiddlewares(middlewares poseidon.Middlewares) ConfigurationFunc {
	return func(app *App) error {
		app.middlewares = middlewares

		return nil
	}
}

// Serve the application over HTTP until ctx is done
func (app *App) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", app.config.ListenAddr())
	if err != nil {
		return err
	}

	app.logger.Info(
		"Server Listen on HTTP",
		"addr", fmt.Sprintf("http://%s", strings.ReplaceAll(listener.Addr().String(), "[::]", "0.0.0.0")),
	)

	server := &http.Server{
		Handler:           app.Handler(),
		ReadHeaderTimeout: time.Second * 10,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			app.logger.Error("Server Shutdown", "error", err)
		}
	}()

	if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (app *App) Handler() http.Handler {
	mux := http.NewServeMux()

	for path, handler := range app.handlers {
		mux.Handle(path, handler)
	}

	return app.middlewares.Apply(mux)
}
