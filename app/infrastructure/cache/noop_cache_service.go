package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
)

// NoOpCacheService provides a no-operation cache service for graceful
// degradation when no Redis is configured
type NoOpCacheService struct{}

// Set is a no-op implementation
func (n *NoOpCacheService) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	return nil
}

// Get always returns "key not found" error
func (n *NoOpCacheService) Get(ctx context.Context, key string, dest any) error {
	return fmt.Errorf("key not found: %s", key)
}

// Delete is a no-op implementation
func (n *NoOpCacheService) Delete(ctx context.Context, key string) error {
	return nil
}

// Exists always returns false
func (n *NoOpCacheService) Exists(ctx context.Context, key string) (bool, error) {
	return false, nil
}

// IncrWithCeiling always allows; enforcement falls back to the database
// quota repository when Redis is absent
func (n *NoOpCacheService) IncrWithCeiling(ctx context.Context, key string, ceiling int64, ttl time.Duration) (bool, int64, error) {
	return true, 0, nil
}

// Decr is a no-op implementation
func (n *NoOpCacheService) Decr(ctx context.Context, key string) (int64, error) {
	return 0, nil
}

// Close is a no-op implementation
func (n *NoOpCacheService) Close() error {
	return nil
}

// HealthCheck always succeeds
func (n *NoOpCacheService) HealthCheck(ctx context.Context) error {
	return nil
}

// NewMutex returns nil; callers treat a nil mutex as process-local work
func (n *NoOpCacheService) NewMutex(name string, options ...redsync.Option) *redsync.Mutex {
	return nil
}
