package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownQueue = errors.New("queue does not exist")

// Driver moves raw message bodies between publishers and consumers.
type Driver interface {
	CreateQueue(ctx context.Context, queueName string) error
	Publish(ctx context.Context, queueName string, payload []byte) error
	Consume(ctx context.Context, queueName string, handler func(ctx context.Context, payload []byte) error) error
}

type Handler[T any] func(ctx context.Context, message T) error

// Queue is a named queue carrying JSON encoded messages of type T.
type Queue[T any] struct {
	driver Driver
	name   string
}

func NewQueue[T any](ctx context.Context, driver Driver, name string) (Queue[T], error) {
	if err := driver.CreateQueue(ctx, name); err != nil {
		return Queue[T]{}, fmt.Errorf("create queue %s: %w", name, err)
	}

	return Queue[T]{
		driver: driver,
		name:   name,
	}, nil
}

func (queue Queue[T]) Name() string {
	return queue.name
}

func (queue Queue[T]) Publish(ctx context.Context, message T) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}

	return queue.driver.Publish(ctx, queue.name, payload)
}

// Consume blocks, handing each message to handler until ctx is done or the
// handler fails.
func (queue Queue[T]) Consume(ctx context.Context, handler Handler[T]) error {
	return queue.driver.Consume(ctx, queue.name, func(ctx context.Context, payload []byte) error {
		var message T
		if err := json.Unmarshal(payload, &message); err != nil {
			return fmt.Errorf("decode message on %s: %w", queue.name, err)
		}

		return handler(ctx, message)
	})
}
