package agenda

import (
	"context"
	"time"
)

func EverySecond(
	ctx context.Context,
	action func(ctx context.Context) error,
	errorHandler func(ctx context.Context, err error) error,
) error {
	return Interval(ctx, time.Second, action, errorHandler)
}

// Interval runs action right away and then on every boundary of d until ctx
// is done. Action errors go to errorHandler; the loop stops when
// errorHandler returns an error.
func Interval(
	ctx context.Context,
	d time.Duration,
	action func(ctx context.Context) error,
	errorHandler func(ctx context.Context, err error) error,
) error {
	for {
		if err := action(ctx); err != nil {
			if err := errorHandler(ctx, err); err != nil {
				return err
			}
		}

		now := time.Now()
		if err := Sleep(ctx, now.Add(d).Truncate(d).Sub(now)); err != nil {
			return err
		}
	}
}

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
