package fleet

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/database"
	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackertools"
)

func (service *Service) CreateInvoice(ctx context.Context, loadID int64, amount float64, dueDate time.Time) (*Invoice, error) {
	if amount <= 0 {
		return nil, RequestError{Field: "amount", Reason: "must be positive"}
	}

	if _, err := service.Load(ctx, loadID); err != nil {
		return nil, fmt.Errorf("load %d: %w", loadID, err)
	}

	invoice := Invoice{
		LoadID:        loadID,
		InvoiceNumber: fmt.Sprintf("INV-%d-%s", loadID, strings.ToUpper(uuid.NewString()[:8])),
		Amount:        amount,
		Status:        InvoiceStatusSent,
		DueDate:       dueDate.UTC(),
	}

	return writeOne[Invoice](ctx,
		service.from("invoices").Insert(invoice).Select("*"),
		func() *database.QueryBuilder {
			return service.from("invoices").Eq("invoice_number", invoice.InvoiceNumber)
		},
	)
}

// OutstandingInvoices lists every unpaid invoice, soonest due first.
func (service *Service) OutstandingInvoices(ctx context.Context) ([]Invoice, error) {
	return database.FetchManyInto[Invoice](ctx,
		service.from("invoices").
			Neq("status", InvoiceStatusPaid).
			Order("due_date"),
	)
}

func (service *Service) MarkInvoicePaid(ctx context.Context, invoiceID int64) (*Invoice, error) {
	invoice, err := writeOne[Invoice](ctx,
		service.from("invoices").
			Update(map[string]any{
				"status":  InvoiceStatusPaid,
				"paid_at": service.now(),
			}).
			Eq("id", invoiceID),
		func() *database.QueryBuilder {
			return service.from("invoices").Eq("id", invoiceID)
		},
	)
	if err != nil {
		return nil, err
	}

	if invoice == nil {
		return nil, ErrNotFound
	}

	return invoice, nil
}

// MarkOverdueInvoices flags sent invoices whose due date has passed and
// returns how many changed.
func (service *Service) MarkOverdueInvoices(ctx context.Context) (int, error) {
	due, err := database.FetchManyInto[Invoice](ctx,
		service.from("invoices").
			Select("id").
			Eq("status", InvoiceStatusSent).
			Lt("due_date", service.now()),
	)
	if err != nil {
		return 0, err
	}

	if len(due) == 0 {
		return 0, nil
	}

	ids := trackertools.Map(due, func(invoice Invoice) int64 {
		return invoice.ID
	})

	if _, err := service.from("invoices").
		Update(map[string]any{"status": InvoiceStatusOverdue}).
		In("id", ids).
		Eq("status", InvoiceStatusSent).
		Select("id").
		FetchMany(ctx); err != nil {
		return 0, err
	}

	return len(ids), nil
}
