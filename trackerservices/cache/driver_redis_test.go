package cache_test

import (
	"errors"
	"testing"

	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/cache"
	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackertest"
)

func TestDriverRedis(t *testing.T) {
	t.Parallel()
	testRedisCompatible(t, "redis", "7")
}

func TestDriverValkey(t *testing.T) {
	t.Parallel()
	testRedisCompatible(t, "valkey/valkey", "8")
}

func testRedisCompatible(t *testing.T, image string, tag string) {
	driver := trackertest.GetDockerService(t, trackertest.DockerServiceConfig[cache.Driver]{
		DockerImage:    image,
		DockerImageTag: tag,
		InternalPort:   6379,
		Builder: func(host string, port int) (cache.Driver, error) {
			driver, err := cache.NewDriverRedis(cache.DriverRedisConfig{
				Host: host,
				Port: port,
			})
			if err != nil {
				return nil, err
			}

			if _, err := driver.Get(t.Context(), "probe"); err != nil && !errors.Is(err, cache.ErrNotFound) {
				return nil, err
			}

			return driver, nil
		},
	})

	testSuite(t, driver)
}
