package tracker_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/tracker"
	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/queue"
	"gotest.tools/v3/assert"
)

type StatusChanged struct {
	LoadID int64
}

func TestAppQueue(t *testing.T) {
	ctx := t.Context()

	queueDriver, err := queue.NewDriverMemory()
	assert.NilError(t, err)

	statusQueue, err := queue.NewQueue[StatusChanged](ctx, queueDriver, uuid.NewString())
	assert.NilError(t, err)

	received := make(chan StatusChanged, 1)
	_, err = tracker.NewApp(
		ctx,
		tracker.NewConfig(),
		tracker.WithQueue(ctx, statusQueue, func(ctx context.Context, payload StatusChanged) error {
			received <- payload
			return nil
		}),
	)
	assert.NilError(t, err)

	assert.NilError(t, statusQueue.Publish(ctx, StatusChanged{LoadID: 42}))

	select {
	case message := <-received:
		assert.Equal(t, int64(42), message.LoadID)
	case <-time.After(time.Second * 5):
		t.Fatal("message was not consumed")
	}
}

func TestAppStart(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())

	config := tracker.NewConfig()
	config.AppHTTPHost = "127.0.0.1"
	config.AppHTTPPort = 0 // Make sure a random port is selected

	app, err := tracker.NewApp(ctx, config,
		tracker.WithHandler("/", http.NotFoundHandler()),
	)
	assert.NilError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- app.Start(ctx)
	}()

	time.Sleep(time.Millisecond * 200)
	cancel()

	select {
	case err := <-done:
		assert.NilError(t, err)
	case <-time.After(time.Second * 5):
		t.Fatal("server did not shut down")
	}
}
