package cache

import (
	"context"
	"time"

	"github.com/go-redsync/redsync/v4"
)

// CacheService defines the interface for shared key-value cache operations
type CacheService interface {
	// Set stores a JSON-encoded value in cache with an expiration time
	Set(ctx context.Context, key string, value any, expiration time.Duration) error

	// Get retrieves a JSON-encoded value from cache into dest
	Get(ctx context.Context, key string, dest any) error

	// Delete removes a key from cache
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists in cache
	Exists(ctx context.Context, key string) (bool, error)

	// IncrWithCeiling atomically increments a counter key unless the
	// increment would exceed ceiling; ttl is applied when the key is
	// created. Returns whether the increment was applied and the counter
	// value after the call.
	IncrWithCeiling(ctx context.Context, key string, ceiling int64, ttl time.Duration) (bool, int64, error)

	// Decr decrements a counter key, never going below zero
	Decr(ctx context.Context, key string) (int64, error)

	// Close closes the cache connection
	Close() error

	// HealthCheck verifies cache connectivity
	HealthCheck(ctx context.Context) error

	// NewMutex returns a distributed mutex, or nil when the backend has no
	// cross-process locking (callers must nil-check)
	NewMutex(name string, options ...redsync.Option) *redsync.Mutex
}
