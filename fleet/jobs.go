package fleet

import (
	"context"
	"time"

	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/tracker"
	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/database"
)

const (
	overdueSweepInterval = time.Hour
	invoicePaymentTerms  = time.Hour * 24 * 30
)

// BackgroundJobs are the periodic fleet jobs, run by the primary instance.
func (service *Service) BackgroundJobs() []tracker.BackgroundJob {
	return []tracker.BackgroundJob{
		tracker.NewBackgroundJob("fleet-overdue-invoices", overdueSweepInterval, func(ctx context.Context) error {
			count, err := service.MarkOverdueInvoices(ctx)
			if err != nil {
				return err
			}

			if count > 0 {
				service.logger.InfoContext(ctx, "Overdue Invoices", "count", count)
			}

			return nil
		}),
	}
}

// HandleLoadEvent consumes load events. Delivered loads are invoiced at their
// rate on net 30 terms, once.
func (service *Service) HandleLoadEvent(ctx context.Context, event LoadEvent) error {
	service.logger.InfoContext(ctx, "Load Event",
		"load", event.LoadID,
		"status", event.Status,
	)

	if event.Status != LoadStatusDelivered {
		return nil
	}

	existing, err := service.from("invoices").Select("id").Eq("load_id", event.LoadID).Limit(1).FetchOne(ctx)
	if err != nil {
		return err
	}

	if existing != nil {
		return nil
	}

	load, err := service.Load(ctx, event.LoadID)
	if err != nil {
		return err
	}

	if load.Rate <= 0 {
		return nil
	}

	_, err = service.CreateInvoice(ctx, load.ID, load.Rate, service.now().Add(invoicePaymentTerms))

	return err
}

// InvoicesForLoad lists the invoices raised for a load.
func (service *Service) InvoicesForLoad(ctx context.Context, loadID int64) ([]Invoice, error) {
	return database.FetchManyInto[Invoice](ctx,
		service.from("invoices").
			Eq("load_id", loadID).
			Order("id"),
	)
}
