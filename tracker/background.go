package tracker

import (
	"context"
	"errors"
	"time"

	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/tracker/internal/agenda"
	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/cache"
)

const (
	backOffTimeToHandleCollisions = time.Second * 3
	maxTimeWithoutCheckIn         = time.Second * 6
)

type BackgroundJob struct {
	name     string
	interval time.Duration
	action   func(ctx context.Context) error
}

type primarySchedulerPayload struct {
	UUID      string
	CheckedIn time.Time
}

func NewBackgroundJob(name string, interval time.Duration, action func(ctx context.Context) error) BackgroundJob {
	return BackgroundJob{
		name:     name,
		interval: interval,
		action:   action,
	}
}

// WithBackgroundJobs runs jobs on a single instance. Instances sharing
// cacheDriver elect a primary, and only the primary runs jobs.
func WithBackgroundJobs(cacheDriver cache.Driver, jobs []BackgroundJob) ConfigurationFunc {
	return func(app *App) error {
		if cacheDriver == nil {
			return errors.New("background jobs need a cache driver")
		}

		app.jobsCacheService = cacheDriver
		app.jobs = append(app.jobs, jobs...)

		return nil
	}
}

// Background elects a primary instance once a second and starts every job
// that is due on it. It returns right away.
func (app *App) Background(ctx context.Context) error {
	if len(app.jobs) == 0 {
		return nil
	}

	primaryScheduler := cache.NewRepository[string, primarySchedulerPayload](app.jobsCacheService, "tracker-primary-scheduler")
	jobLastRunTracker := cache.NewRepository[string, time.Time](app.jobsCacheService, "tracker-job-last-ran")

	checkIn := func(ctx context.Context) error {
		return primaryScheduler.Set(
			ctx,
			"data",
			primarySchedulerPayload{
				UUID:      app.instanceUUID,
				CheckedIn: time.Now(),
			},
			time.Hour,
		)
	}

	isPrimary := func(ctx context.Context) (bool, error) {
		for {
			existingCheckInData, err := primaryScheduler.Get(ctx, "data")
			if err != nil && !errors.Is(err, cache.ErrNotFound) {
				return false, err
			}

			if existingCheckInData.UUID == app.instanceUUID {
				return true, nil
			}

			// Exit early if the primary instance has checked in recently
			if time.Since(existingCheckInData.CheckedIn) <= maxTimeWithoutCheckIn {
				return false, nil
			}

			// Attempt to claim the role and wait to see who wins the claim
			if err := checkIn(ctx); err != nil {
				return false, err
			}

			if err := agenda.Sleep(ctx, backOffTimeToHandleCollisions); err != nil {
				return false, err
			}
		}
	}

	jobCanRun := func(ctx context.Context, job BackgroundJob) (bool, error) {
		lastRan, err := jobLastRunTracker.Get(ctx, job.name)
		if err != nil {
			if errors.Is(err, cache.ErrNotFound) {
				return true, nil
			}

			return false, err
		}

		return time.Since(lastRan) >= job.interval, nil
	}

	go func() {
		_ = agenda.EverySecond(
			ctx,
			func(ctx context.Context) error {
				primary, err := isPrimary(ctx)
				if err != nil || !primary {
					return err
				}

				// Check in so no other server tries to take over
				if err := checkIn(ctx); err != nil {
					return err
				}

				for _, job := range app.jobs {
					canRun, err := jobCanRun(ctx, job)
					if err != nil {
						return err
					}

					if !canRun {
						continue
					}

					if err := jobLastRunTracker.Set(ctx, job.name, time.Now(), job.interval*2); err != nil {
						return err
					}

					go app.runJob(ctx, job)
				}

				return nil
			},
			func(ctx context.Context, err error) error {
				if ctx.Err() != nil {
					return ctx.Err()
				}

				app.logger.ErrorContext(ctx, "Background Scheduler", "error", err)

				return nil
			},
		)
	}()

	return nil
}

func (app *App) runJob(ctx context.Context, job BackgroundJob) {
	if err := job.action(ctx); err != nil {
		app.logger.ErrorContext(ctx, "Background Job",
			"job", job.name,
			"error", err,
		)
	}
}
