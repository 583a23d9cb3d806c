package cache_test

import (
	"testing"

	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/cache"
	"gotest.tools/v3/assert"
)

func TestDriverMemory(t *testing.T) {
	t.Parallel()

	driver, err := cache.NewDriverMemory(t.Context())
	assert.NilError(t, err)

	testSuite(t, driver)
}
