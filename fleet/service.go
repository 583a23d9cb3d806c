package fleet

import (
	"context"
	"log/slog"
	"time"

	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/cache"
	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/database"
	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/queue"
	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/storage"
)

const customerCacheTTL = 5 * time.Minute

// Service runs the dispatch, billing and document workflows of a carrier on
// top of the query builder.
type Service struct {
	database  *database.Service
	customers *cache.Repository[int64, Customer]
	events    queue.Queue[LoadEvent]
	storage   storage.Driver
	logger    *slog.Logger
	now       func() time.Time
}

type ServiceConfigFunc func(service *Service)

func WithLogger(logger *slog.Logger) ServiceConfigFunc {
	return func(service *Service) {
		service.logger = logger
	}
}

// WithClock replaces the wall clock used for timestamps and due dates.
func WithClock(now func() time.Time) ServiceConfigFunc {
	return func(service *Service) {
		service.now = now
	}
}

func NewService(
	databaseService *database.Service,
	cacheDriver cache.Driver,
	events queue.Queue[LoadEvent],
	storageDriver storage.Driver,
	configFuncs ...ServiceConfigFunc,
) *Service {
	service := &Service{
		database:  databaseService,
		customers: cache.NewRepository[int64, Customer](cacheDriver, "fleet-customer"),
		events:    events,
		storage:   storageDriver,
		logger:    slog.Default(),
		now: func() time.Time {
			return time.Now().UTC()
		},
	}

	for _, configFunc := range configFuncs {
		configFunc(service)
	}

	return service
}

func (service *Service) from(table string) *database.QueryBuilder {
	return service.database.From(table)
}

// writeOne runs a write and decodes the row it touched. Drivers without
// RETURNING hand back nothing, so the row is read again through reload.
func writeOne[T any](ctx context.Context, write *database.QueryBuilder, reload func() *database.QueryBuilder) (*T, error) {
	written, err := database.FetchOneInto[T](ctx, write)
	if err != nil || written != nil {
		return written, err
	}

	return database.FetchOneInto[T](ctx, reload())
}

func (service *Service) publish(ctx context.Context, load *Load) {
	if err := service.events.Publish(ctx, LoadEvent{
		LoadID:     load.ID,
		DriverID:   load.DriverID,
		Status:     load.Status,
		OccurredAt: service.now(),
	}); err != nil {
		service.logger.ErrorContext(ctx, "Publish Load Event",
			"load", load.ID,
			"status", load.Status,
			"error", err,
		)
	}
}
