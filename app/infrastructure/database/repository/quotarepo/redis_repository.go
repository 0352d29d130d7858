package quotarepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	domain "veriscan.ai/verify-api-gateway/app/domain/quota"
	"veriscan.ai/verify-api-gateway/app/infrastructure/cache"
)

// Day counters only matter for the current day; 48h of slack covers clock
// skew between replicas before Redis reclaims the key.
const counterTTL = 48 * time.Hour

// QuotaRedisRepository keeps day counters in Redis, where INCR gives the
// atomic check-and-increment the quota contract requires across replicas.
type QuotaRedisRepository struct {
	cache cache.CacheService
}

func NewQuotaRedisRepository(cacheService cache.CacheService) domain.Repository {
	return &QuotaRedisRepository{
		cache: cacheService,
	}
}

func counterKey(identity, day string) string {
	return fmt.Sprintf(cache.QuotaCounterKeyPattern, identity, day)
}

func (r *QuotaRedisRepository) IncrementWithCeiling(ctx context.Context, identity, day string, limit int) (bool, int, error) {
	allowed, value, err := r.cache.IncrWithCeiling(ctx, counterKey(identity, day), int64(limit), counterTTL)
	if err != nil {
		return false, 0, err
	}
	return allowed, int(value), nil
}

func (r *QuotaRedisRepository) Decrement(ctx context.Context, identity, day string) error {
	_, err := r.cache.Decr(ctx, counterKey(identity, day))
	return err
}

func (r *QuotaRedisRepository) Consumed(ctx context.Context, identity, day string) (int, error) {
	var consumed int
	err := r.cache.Get(ctx, counterKey(identity, day), &consumed)
	if err != nil {
		if strings.Contains(err.Error(), "key not found") {
			return 0, nil
		}
		return 0, err
	}
	return consumed, nil
}

// DeleteBefore is a no-op: past-day keys expire via their TTL.
func (r *QuotaRedisRepository) DeleteBefore(ctx context.Context, day string) (int64, error) {
	return 0, nil
}
