package fleet

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/tracker"
	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/database"
	"github.com/lunagic/poseidon/poseidon"
)

const documentLinkTTL = 15 * time.Minute

// API exposes the fleet workflows to the dispatch dashboard. Every exported
// method becomes an endpoint.
type API struct {
	service *Service
}

func NewAPI(service *Service) API {
	return API{
		service: service,
	}
}

type DriverLocationRequest struct {
	DriverID int64   `json:"driverId"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

type AssignLoadRequest struct {
	LoadID   int64 `json:"loadId"`
	DriverID int64 `json:"driverId"`
}

func (request AssignLoadRequest) Validate(r *http.Request) error {
	if request.LoadID <= 0 || request.DriverID <= 0 {
		return RequestError{Field: "loadId", Reason: "and driverId are required"}
	}

	return nil
}

type LoadStatusRequest struct {
	LoadID int64      `json:"loadId"`
	Status LoadStatus `json:"status"`
}

type CustomerLoadsRequest struct {
	CustomerID int64        `json:"customerId"`
	Statuses   []LoadStatus `json:"statuses"`
}

type CustomerSearchRequest struct {
	Term  string `json:"term"`
	Limit int    `json:"limit"`
}

type InvoiceRequest struct {
	InvoiceID int64 `json:"invoiceId"`
}

type DocumentLinkRequest struct {
	DocumentID int64 `json:"documentId"`
}

type DocumentLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (api API) AvailableDrivers(ctx context.Context) ([]Driver, error) {
	return api.service.AvailableDrivers(ctx)
}

func (api API) LiveMap(ctx context.Context) ([]MapMarker, error) {
	return api.service.LiveMap(ctx)
}

func (api API) UpdateDriverLocation(ctx context.Context, request DriverLocationRequest) (*Driver, error) {
	return api.service.UpdateDriverLocation(ctx, request.DriverID, request.Lat, request.Lng)
}

func (api API) CreateLoad(ctx context.Context, request NewLoad) (*Load, error) {
	return api.service.CreateLoad(ctx, request)
}

func (api API) AssignLoad(ctx context.Context, request AssignLoadRequest) (*Load, error) {
	return api.service.AssignLoad(ctx, request.LoadID, request.DriverID)
}

func (api API) UpdateLoadStatus(ctx context.Context, request LoadStatusRequest) (*Load, error) {
	return api.service.UpdateLoadStatus(ctx, request.LoadID, request.Status)
}

func (api API) LoadsForCustomer(ctx context.Context, request CustomerLoadsRequest) ([]Load, error) {
	return api.service.LoadsForCustomer(ctx, request.CustomerID, request.Statuses...)
}

func (api API) SearchCustomers(ctx context.Context, request CustomerSearchRequest) ([]Customer, error) {
	return api.service.SearchCustomers(ctx, request.Term, request.Limit)
}

func (api API) SaveCustomer(ctx context.Context, customer Customer) (*Customer, error) {
	return api.service.SaveCustomer(ctx, customer)
}

func (api API) OutstandingInvoices(ctx context.Context) ([]Invoice, error) {
	return api.service.OutstandingInvoices(ctx)
}

func (api API) MarkInvoicePaid(ctx context.Context, request InvoiceRequest) (*Invoice, error) {
	return api.service.MarkInvoicePaid(ctx, request.InvoiceID)
}

func (api API) DocumentLink(ctx context.Context, request DocumentLinkRequest) (DocumentLink, error) {
	url, err := api.service.DocumentLink(ctx, request.DocumentID, documentLinkTTL)
	if err != nil {
		return DocumentLink{}, err
	}

	return DocumentLink{
		URL:       url,
		ExpiresAt: api.service.now().Add(documentLinkTTL),
	}, nil
}

// ErrorHandler renders fleet and query errors as JSON messages with a status
// that matches their cause.
func ErrorHandler(logger *slog.Logger) func(w http.ResponseWriter, r *http.Request, err error) {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		var requestError RequestError

		switch {
		case errors.As(err, &requestError),
			errors.Is(err, tracker.ErrInvalidPayload),
			errors.Is(err, database.ErrValidation),
			errors.Is(err, ErrInvalidCoordinates):
			poseidon.RespondJSON(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrNotFound):
			poseidon.RespondJSON(w, http.StatusNotFound, err.Error())
		case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrDriverUnavailable):
			poseidon.RespondJSON(w, http.StatusConflict, err.Error())
		default:
			logger.ErrorContext(r.Context(), "Fleet API",
				"path", r.URL.String(),
				"error", err,
			)
			poseidon.RespondJSON(w, http.StatusInternalServerError, "something went wrong")
		}
	}
}
