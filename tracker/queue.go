package tracker

import (
	"context"
	"errors"
	"log/slog"

	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/queue"
)

// WithQueue consumes q with handler once the app is built, until ctx is done.
func WithQueue[T any](
	ctx context.Context,
	q queue.Queue[T],
	handler func(
		ctx context.Context,
		payload T,
	) error,
) ConfigurationFunc {
	return func(app *App) error {
		app.consumers = append(app.consumers, func(logger *slog.Logger) {
			if err := q.Consume(ctx, handler); err != nil && !errors.Is(err, context.Canceled) {
				logger.ErrorContext(ctx, "Queue Consumer Stopped",
					"queue", q.Name(),
					"error", err,
				)
			}
		})

		return nil
	}
}
