package verification

import (
	"context"
	"fmt"
	"time"

	"veriscan.ai/verify-api-gateway/app/domain/common"
	"veriscan.ai/verify-api-gateway/app/domain/query"
	"veriscan.ai/verify-api-gateway/app/utils/logger"
)

// TTL per verdict. FALSE keeps the longest window because misinformation
// rarely becomes true, so reuse there saves the most pipeline calls;
// INDETERMINATE verdicts are likely to resolve as more sources appear.
const (
	ttlTrue          = 7 * 24 * time.Hour
	ttlFalse         = 30 * 24 * time.Hour
	ttlIndeterminate = 12 * time.Hour
	ttlDefault       = 24 * time.Hour
)

const sweepBatchSize = 500

// TTLForStatus returns how long a result with the given verdict stays
// servable from cache.
func TTLForStatus(status VerificationStatus) time.Duration {
	switch status {
	case StatusTrue:
		return ttlTrue
	case StatusFalse:
		return ttlFalse
	case StatusIndeterminate:
		return ttlIndeterminate
	default:
		return ttlDefault
	}
}

// CacheService owns cache entries: expiry-aware lookups, verdict-dependent
// TTLs on store, manual invalidation and batched sweeping of expired rows.
type CacheService struct {
	repo CacheRepository
	now  func() time.Time
}

func NewCacheService(repo CacheRepository) *CacheService {
	return &CacheService{
		repo: repo,
		now:  time.Now,
	}
}

// Lookup returns the entry for key, treating expired-but-not-yet-swept
// entries as absent. A successful lookup registers a hit. Durable-store
// read errors degrade to a miss so a down store never fails verification.
func (s *CacheService) Lookup(ctx context.Context, key string) (*CacheEntry, bool) {
	entry, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		logger.GetLogger().Warnf("cache lookup degraded to miss for %s: %v", key, err)
		return nil, false
	}
	if entry == nil {
		return nil, false
	}
	now := s.now()
	if now.After(entry.ExpiresAt) {
		return nil, false
	}
	if err := s.repo.RegisterHit(ctx, key, now); err != nil {
		logger.GetLogger().Warnf("cache hit registration failed for %s: %v", key, err)
	} else {
		entry.HitCount++
		entry.LastHitAt = &now
	}
	return entry, true
}

// Store upserts the result under key with a verdict-dependent expiry. An
// upsert of an existing key writes a fresh entry: hit statistics reset and
// the expiry window restarts, because a re-classification is a new fact,
// not a continuation of the old one.
func (s *CacheService) Store(ctx context.Context, key string, result *VerificationResult) error {
	now := s.now()
	entry := &CacheEntry{
		Key:       key,
		Result:    *result,
		CachedAt:  now,
		ExpiresAt: now.Add(TTLForStatus(result.Status)),
		HitCount:  0,
	}
	if err := s.repo.Upsert(ctx, entry); err != nil {
		return fmt.Errorf("%w: store cache entry: %v", common.ErrStoreUnavailable, err)
	}
	return nil
}

// Invalidate hard-deletes an entry, for manual correction.
func (s *CacheService) Invalidate(ctx context.Context, key string) error {
	if err := s.repo.Delete(ctx, key); err != nil {
		return fmt.Errorf("%w: invalidate cache entry: %v", common.ErrStoreUnavailable, err)
	}
	return nil
}

// Sweep deletes expired entries in batches and reports how many were
// removed. It is purely space reclamation: Lookup already hides expired
// entries, and per-entry deletes keep it safe to run from several
// processes at once.
func (s *CacheService) Sweep(ctx context.Context) (int64, error) {
	var total int64
	for {
		removed, err := s.repo.DeleteExpired(ctx, s.now(), sweepBatchSize)
		total += removed
		if err != nil {
			return total, fmt.Errorf("%w: sweep expired entries: %v", common.ErrStoreUnavailable, err)
		}
		if removed < int64(sweepBatchSize) {
			return total, nil
		}
	}
}

// List pages through stored entries for the admin surface.
func (s *CacheService) List(ctx context.Context, pagination *query.Pagination) ([]*CacheEntry, int64, error) {
	entries, total, err := s.repo.List(ctx, pagination)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list cache entries: %v", common.ErrStoreUnavailable, err)
	}
	return entries, total, nil
}

// Stats exposes cache counters for the admin surface.
func (s *CacheService) Stats(ctx context.Context) (*CacheStats, error) {
	return s.repo.Stats(ctx)
}
