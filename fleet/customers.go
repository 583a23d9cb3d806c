package fleet

import (
	"context"
	"errors"
	"strings"

	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/database"
)

const maxCustomerSearchResults = 100

// SearchCustomers matches term anywhere in the customer name, ignoring case.
func (service *Service) SearchCustomers(ctx context.Context, term string, limit int) ([]Customer, error) {
	if limit <= 0 || limit > maxCustomerSearchResults {
		limit = maxCustomerSearchResults
	}

	return database.FetchManyInto[Customer](ctx,
		service.from("customers").
			ILike("name", "%"+strings.TrimSpace(term)+"%").
			Order("name").
			Limit(limit),
	)
}

// Customer reads through the customer cache.
func (service *Service) Customer(ctx context.Context, customerID int64) (*Customer, error) {
	customer, err := service.customers.Remember(ctx, customerID, customerCacheTTL, func(ctx context.Context) (Customer, error) {
		customer, err := database.FetchOneInto[Customer](ctx, service.from("customers").Eq("id", customerID))
		if err != nil {
			return Customer{}, err
		}

		if customer == nil {
			return Customer{}, ErrNotFound
		}

		return *customer, nil
	})
	if err != nil {
		return nil, err
	}

	return &customer, nil
}

// SaveCustomer inserts or replaces a customer by id.
func (service *Service) SaveCustomer(ctx context.Context, customer Customer) (*Customer, error) {
	customer.Email = strings.ToLower(strings.TrimSpace(customer.Email))
	if customer.Name == "" {
		return nil, RequestError{Field: "name", Reason: "is required"}
	}

	if customer.Email == "" {
		return nil, RequestError{Field: "email", Reason: "is required"}
	}

	saved, err := writeOne[Customer](ctx,
		service.from("customers").Upsert(customer, database.WithOnConflict("id")).Select("*"),
		func() *database.QueryBuilder {
			return service.from("customers").Eq("email", customer.Email)
		},
	)
	if err != nil {
		return nil, err
	}

	if err := service.customers.Delete(ctx, saved.ID); err != nil {
		return nil, err
	}

	return saved, nil
}

func (service *Service) DeleteCustomer(ctx context.Context, customerID int64) error {
	if _, err := service.from("customers").Delete().Eq("id", customerID).Select("id").FetchMany(ctx); err != nil {
		return err
	}

	return service.customers.Delete(ctx, customerID)
}

// IsNotFound reports whether err means the record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
