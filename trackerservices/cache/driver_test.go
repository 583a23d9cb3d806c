package cache_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/cache"
	"gotest.tools/v3/assert"
)

func testSuite(t *testing.T, driver cache.Driver) {
	key := uuid.NewString()
	value := uuid.NewString()

	{ // Missing keys
		_, err := driver.Get(t.Context(), key)
		assert.ErrorIs(t, err, cache.ErrNotFound)
	}

	{ // Set then get
		assert.NilError(t, driver.Set(t.Context(), key, value, 30*time.Second))

		actual, err := driver.Get(t.Context(), key)
		assert.NilError(t, err)
		assert.Equal(t, value, actual)
	}

	{ // Delete
		assert.NilError(t, driver.Delete(t.Context(), key))

		_, err := driver.Get(t.Context(), key)
		assert.ErrorIs(t, err, cache.ErrNotFound)
	}

	{ // Expiration
		key := uuid.NewString()
		assert.NilError(t, driver.Set(t.Context(), key, value, time.Second))

		actual, err := driver.Get(t.Context(), key)
		assert.NilError(t, err)
		assert.Equal(t, value, actual)

		time.Sleep(2 * time.Second)

		_, err = driver.Get(t.Context(), key)
		assert.ErrorIs(t, err, cache.ErrNotFound)
	}
}
