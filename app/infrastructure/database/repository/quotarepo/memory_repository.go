package quotarepo

import (
	"context"
	"strings"
	"sync"
)

// MemoryRepository is a process-local quota repository used when neither a
// database nor Redis is configured, and by tests.
type MemoryRepository struct {
	mu       sync.Mutex
	counters map[string]int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		counters: make(map[string]int),
	}
}

func memoryKey(identity, day string) string {
	return identity + "|" + day
}

func (r *MemoryRepository) IncrementWithCeiling(ctx context.Context, identity, day string, limit int) (bool, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := memoryKey(identity, day)
	consumed := r.counters[key]
	if consumed >= limit {
		return false, consumed, nil
	}
	r.counters[key] = consumed + 1
	return true, consumed + 1, nil
}

func (r *MemoryRepository) Decrement(ctx context.Context, identity, day string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := memoryKey(identity, day)
	if r.counters[key] > 0 {
		r.counters[key]--
	}
	return nil
}

func (r *MemoryRepository) Consumed(ctx context.Context, identity, day string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters[memoryKey(identity, day)], nil
}

func (r *MemoryRepository) DeleteBefore(ctx context.Context, day string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for key := range r.counters {
		_, keyDay, ok := strings.Cut(key, "|")
		if ok && keyDay < day {
			delete(r.counters, key)
			removed++
		}
	}
	return removed, nil
}
