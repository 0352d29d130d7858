package verificationcacherepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"veriscan.ai/verify-api-gateway/app/domain/query"
	domain "veriscan.ai/verify-api-gateway/app/domain/verification"
)

// MemoryRepository is a process-local cache repository used when no durable
// store is configured, and by tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.CacheEntry
	nextID  uint
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		entries: make(map[string]*domain.CacheEntry),
	}
}

func (r *MemoryRepository) FindByKey(ctx context.Context, key string) (*domain.CacheEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[key]
	if !ok {
		return nil, nil
	}
	copied := *entry
	return &copied, nil
}

func (r *MemoryRepository) Upsert(ctx context.Context, entry *domain.CacheEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *entry
	if existing, ok := r.entries[entry.Key]; ok {
		copied.ID = existing.ID
	} else {
		r.nextID++
		copied.ID = r.nextID
	}
	r.entries[entry.Key] = &copied
	return nil
}

func (r *MemoryRepository) RegisterHit(ctx context.Context, key string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.entries[key]; ok {
		entry.HitCount++
		hitAt := at
		entry.LastHitAt = &hitAt
	}
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
	return nil
}

func (r *MemoryRepository) DeleteExpired(ctx context.Context, before time.Time, batchSize int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for key, entry := range r.entries {
		if removed >= int64(batchSize) {
			break
		}
		if !entry.ExpiresAt.After(before) {
			delete(r.entries, key)
			removed++
		}
	}
	return removed, nil
}

func (r *MemoryRepository) List(ctx context.Context, pagination *query.Pagination) ([]*domain.CacheEntry, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*domain.CacheEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		copied := *entry
		all = append(all, &copied)
	}
	desc := pagination != nil && pagination.Order == "desc"
	sort.Slice(all, func(i, j int) bool {
		if desc {
			return all[i].ID > all[j].ID
		}
		return all[i].ID < all[j].ID
	})

	filtered := all[:0]
	for _, entry := range all {
		if pagination != nil && pagination.After != nil {
			if desc && entry.ID >= *pagination.After {
				continue
			}
			if !desc && entry.ID <= *pagination.After {
				continue
			}
		}
		filtered = append(filtered, entry)
	}

	limit := pagination.LimitOrDefault(20)
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, int64(len(r.entries)), nil
}

func (r *MemoryRepository) Stats(ctx context.Context) (*domain.CacheStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := &domain.CacheStats{Entries: int64(len(r.entries))}
	for _, entry := range r.entries {
		stats.TotalHits += int64(entry.HitCount)
	}
	return stats, nil
}
