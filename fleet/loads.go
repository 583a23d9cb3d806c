package fleet

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/database"
)

type NewLoad struct {
	Reference   string    `json:"reference"`
	CustomerID  int64     `json:"customerId"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Stops       []string  `json:"stops"`
	Rate        float64   `json:"rate"`
	PickupAt    time.Time `json:"pickupAt"`
}

func (newLoad NewLoad) Validate(r *http.Request) error {
	switch {
	case strings.TrimSpace(newLoad.Reference) == "":
		return RequestError{Field: "reference", Reason: "is required"}
	case newLoad.CustomerID <= 0:
		return RequestError{Field: "customerId", Reason: "is required"}
	case newLoad.Origin == "" || newLoad.Destination == "":
		return RequestError{Field: "origin", Reason: "and destination are required"}
	case newLoad.Rate < 0:
		return RequestError{Field: "rate", Reason: "must not be negative"}
	case newLoad.PickupAt.IsZero():
		return RequestError{Field: "pickupAt", Reason: "is required"}
	}

	return nil
}

func (service *Service) CreateLoad(ctx context.Context, newLoad NewLoad) (*Load, error) {
	if err := newLoad.Validate(nil); err != nil {
		return nil, err
	}

	if _, err := service.Customer(ctx, newLoad.CustomerID); err != nil {
		return nil, fmt.Errorf("customer %d: %w", newLoad.CustomerID, err)
	}

	load := Load{
		Reference:   strings.TrimSpace(newLoad.Reference),
		CustomerID:  newLoad.CustomerID,
		Status:      LoadStatusPending,
		Origin:      newLoad.Origin,
		Destination: newLoad.Destination,
		Stops:       newLoad.Stops,
		Rate:        newLoad.Rate,
		PickupAt:    newLoad.PickupAt.UTC(),
	}

	created, err := writeOne[Load](ctx,
		service.from("loads").Insert(load).Select("*"),
		func() *database.QueryBuilder {
			return service.from("loads").Eq("reference", load.Reference)
		},
	)
	if err != nil {
		return nil, err
	}

	service.publish(ctx, created)

	return created, nil
}

func (service *Service) Load(ctx context.Context, loadID int64) (*Load, error) {
	load, err := database.FetchOneInto[Load](ctx, service.from("loads").Eq("id", loadID))
	if err != nil {
		return nil, err
	}

	if load == nil {
		return nil, ErrNotFound
	}

	return load, nil
}

func (service *Service) updateLoad(ctx context.Context, loadID int64, changes map[string]any) (*Load, error) {
	load, err := writeOne[Load](ctx,
		service.from("loads").Update(changes).Eq("id", loadID),
		func() *database.QueryBuilder {
			return service.from("loads").Eq("id", loadID)
		},
	)
	if err != nil {
		return nil, err
	}

	if load == nil {
		return nil, ErrNotFound
	}

	return load, nil
}

// AssignLoad hands a pending load to an available driver.
func (service *Service) AssignLoad(ctx context.Context, loadID int64, driverID int64) (*Load, error) {
	load, err := service.Load(ctx, loadID)
	if err != nil {
		return nil, err
	}

	if !load.Status.CanBecome(LoadStatusAssigned) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, load.Status, LoadStatusAssigned)
	}

	driver, err := service.Driver(ctx, driverID)
	if err != nil {
		return nil, fmt.Errorf("driver %d: %w", driverID, err)
	}

	if driver.Status != DriverStatusAvailable {
		return nil, fmt.Errorf("%w: driver %d is %s", ErrDriverUnavailable, driverID, driver.Status)
	}

	// Only a driver that is still available can be claimed
	claimed, err := writeOne[Driver](ctx,
		service.from("drivers").
			Update(map[string]any{
				"status":          DriverStatusOnLoad,
				"current_load_id": loadID,
			}).
			Eq("id", driverID).
			Eq("status", DriverStatusAvailable).
			Select("id"),
		func() *database.QueryBuilder {
			return service.from("drivers").Select("id").Eq("id", driverID).Eq("current_load_id", loadID)
		},
	)
	if err != nil {
		return nil, err
	}

	if claimed == nil {
		return nil, fmt.Errorf("%w: driver %d was claimed by another load", ErrDriverUnavailable, driverID)
	}

	assigned, err := service.updateLoad(ctx, loadID, map[string]any{
		"status":    LoadStatusAssigned,
		"driver_id": driverID,
	})
	if err != nil {
		return nil, err
	}

	service.publish(ctx, assigned)

	return assigned, nil
}

// UpdateLoadStatus moves a load along its lifecycle. Closing a load frees its
// driver.
func (service *Service) UpdateLoadStatus(ctx context.Context, loadID int64, status LoadStatus) (*Load, error) {
	load, err := service.Load(ctx, loadID)
	if err != nil {
		return nil, err
	}

	if status == LoadStatusAssigned || !load.Status.CanBecome(status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, load.Status, status)
	}

	changes := map[string]any{
		"status": status,
	}
	if status == LoadStatusDelivered {
		changes["delivered_at"] = service.now()
	}

	updated, err := service.updateLoad(ctx, loadID, changes)
	if err != nil {
		return nil, err
	}

	if status.Closed() && updated.DriverID != nil {
		if err := service.releaseDriver(ctx, *updated.DriverID); err != nil {
			return nil, err
		}
	}

	service.publish(ctx, updated)

	return updated, nil
}

// LoadsForCustomer lists a customer's loads, newest first, optionally limited
// to the given statuses.
func (service *Service) LoadsForCustomer(ctx context.Context, customerID int64, statuses ...LoadStatus) ([]Load, error) {
	builder := service.from("loads").Eq("customer_id", customerID)
	if len(statuses) > 0 {
		builder = builder.In("status", statuses)
	}

	return database.FetchManyInto[Load](ctx, builder.Order("id", database.Descending()))
}
