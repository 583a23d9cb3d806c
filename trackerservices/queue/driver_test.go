package queue_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/queue"
	"gotest.tools/v3/assert"
)

type statusEvent struct {
	LoadID int64
	Status string
}

func testSuite(t *testing.T, driver queue.Driver) {
	events, err := queue.NewQueue[statusEvent](t.Context(), driver, uuid.NewString())
	assert.NilError(t, err)

	published := []statusEvent{
		{LoadID: 1, Status: "assigned"},
		{LoadID: 1, Status: "in_transit"},
	}
	for _, event := range published {
		assert.NilError(t, events.Publish(t.Context(), event))
	}

	stop := errors.New(uuid.NewString())
	received := []statusEvent{}

	err = events.Consume(t.Context(), func(ctx context.Context, event statusEvent) error {
		received = append(received, event)
		if len(received) == len(published) {
			return stop
		}

		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.DeepEqual(t, published, received)
}
