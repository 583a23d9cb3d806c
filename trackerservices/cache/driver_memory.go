package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// NewDriverMemory keeps entries in process. Expired entries are swept every
// minute until ctx is done.
func NewDriverMemory(ctx context.Context) (Driver, error) {
	driver := &driverMemory{
		entries: map[string]memoryEntry{},
	}

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				driver.sweep(now)
			}
		}
	}()

	return driver, nil
}

type driverMemory struct {
	mutex   sync.Mutex
	entries map[string]memoryEntry
}

func (driver *driverMemory) Delete(ctx context.Context, key string) error {
	driver.mutex.Lock()
	defer driver.mutex.Unlock()

	delete(driver.entries, key)

	return nil
}

func (driver *driverMemory) Get(ctx context.Context, key string) (string, error) {
	driver.mutex.Lock()
	defer driver.mutex.Unlock()

	entry, found := driver.entries[key]
	if !found || !time.Now().Before(entry.expiresAt) {
		return "", ErrNotFound
	}

	return entry.value, nil
}

func (driver *driverMemory) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	driver.mutex.Lock()
	defer driver.mutex.Unlock()

	driver.entries[key] = memoryEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}

	return nil
}

func (driver *driverMemory) sweep(now time.Time) {
	driver.mutex.Lock()
	defer driver.mutex.Unlock()

	for key, entry := range driver.entries {
		if now.After(entry.expiresAt) {
			delete(driver.entries, key)
		}
	}
}
