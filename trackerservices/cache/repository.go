package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Repository stores JSON encoded values under a shared key prefix.
type Repository[Key comparable, Value any] struct {
	driver Driver
	prefix string
}

func NewRepository[Key comparable, Value any](driver Driver, prefix string) *Repository[Key, Value] {
	return &Repository[Key, Value]{
		driver: driver,
		prefix: prefix,
	}
}

func (repository *Repository[Key, Value]) key(key Key) string {
	return fmt.Sprintf("%s:%v", repository.prefix, key)
}

func (repository *Repository[Key, Value]) Get(ctx context.Context, key Key) (Value, error) {
	var target Value

	raw, err := repository.driver.Get(ctx, repository.key(key))
	if err != nil {
		return target, err
	}

	if err := json.Unmarshal([]byte(raw), &target); err != nil {
		return target, fmt.Errorf("decode cached %s: %w", repository.key(key), err)
	}

	return target, nil
}

func (repository *Repository[Key, Value]) Set(ctx context.Context, key Key, value Value, ttl time.Duration) error {
	jsonBytes, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return repository.driver.Set(ctx, repository.key(key), string(jsonBytes), ttl)
}

func (repository *Repository[Key, Value]) Delete(ctx context.Context, key Key) error {
	return repository.driver.Delete(ctx, repository.key(key))
}

// Remember returns the cached value for key, calling load and caching its
// result on a miss.
func (repository *Repository[Key, Value]) Remember(
	ctx context.Context,
	key Key,
	ttl time.Duration,
	load func(ctx context.Context) (Value, error),
) (Value, error) {
	cached, err := repository.Get(ctx, key)
	if err == nil {
		return cached, nil
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if err := repository.Set(ctx, key, value, ttl); err != nil {
		return value, err
	}

	return value, nil
}
