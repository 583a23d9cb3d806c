package cache

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("cache key not found")

// Driver stores short lived string values by key.
type Driver interface {
	Delete(ctx context.Context, key string) error
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}
