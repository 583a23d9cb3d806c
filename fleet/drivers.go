package fleet

import (
	"context"

	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/database"
	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackertools"
)

func (service *Service) AvailableDrivers(ctx context.Context) ([]Driver, error) {
	return database.FetchManyInto[Driver](ctx,
		service.from("drivers").
			Eq("status", DriverStatusAvailable).
			Order("name"),
	)
}

// LiveMap returns a marker for every on duty driver that has reported a
// position.
func (service *Service) LiveMap(ctx context.Context) ([]MapMarker, error) {
	drivers, err := database.FetchManyInto[Driver](ctx,
		service.from("drivers").
			Select("id, name, status, current_lat, current_lng, location_updated_at").
			IsNot("current_lat", nil).
			IsNot("current_lng", nil).
			Order("name"),
	)
	if err != nil {
		return nil, err
	}

	onDuty := trackertools.Filter(drivers, func(driver Driver) bool {
		return driver.Status != DriverStatusOffDuty
	})

	return trackertools.Map(onDuty, func(driver Driver) MapMarker {
		return MapMarker{
			DriverID:  driver.ID,
			Name:      driver.Name,
			Status:    driver.Status,
			Lat:       *driver.CurrentLat,
			Lng:       *driver.CurrentLng,
			UpdatedAt: driver.LocationUpdatedAt,
		}
	}), nil
}

func (service *Service) Driver(ctx context.Context, driverID int64) (*Driver, error) {
	driver, err := database.FetchOneInto[Driver](ctx, service.from("drivers").Eq("id", driverID))
	if err != nil {
		return nil, err
	}

	if driver == nil {
		return nil, ErrNotFound
	}

	return driver, nil
}

func (service *Service) CreateDriver(ctx context.Context, driver Driver) (*Driver, error) {
	if driver.Name == "" {
		return nil, RequestError{Field: "name", Reason: "is required"}
	}

	if driver.Status == "" {
		driver.Status = DriverStatusAvailable
	}

	return writeOne[Driver](ctx,
		service.from("drivers").Insert(driver).Select("*"),
		func() *database.QueryBuilder {
			return service.from("drivers").Eq("name", driver.Name).Order("id", database.Descending()).Limit(1)
		},
	)
}

func (service *Service) UpdateDriverLocation(ctx context.Context, driverID int64, lat float64, lng float64) (*Driver, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, ErrInvalidCoordinates
	}

	driver, err := writeOne[Driver](ctx,
		service.from("drivers").
			Update(map[string]any{
				"current_lat":         lat,
				"current_lng":         lng,
				"location_updated_at": service.now(),
			}).
			Eq("id", driverID),
		func() *database.QueryBuilder {
			return service.from("drivers").Eq("id", driverID)
		},
	)
	if err != nil {
		return nil, err
	}

	if driver == nil {
		return nil, ErrNotFound
	}

	return driver, nil
}

// releaseDriver makes a driver available again once their load is closed.
func (service *Service) releaseDriver(ctx context.Context, driverID int64) error {
	_, err := service.from("drivers").
		Update(map[string]any{
			"status":          DriverStatusAvailable,
			"current_load_id": nil,
		}).
		Eq("id", driverID).
		Select("id").
		FetchMany(ctx)

	return err
}
