package quota

import (
	"context"
	"fmt"
	"time"

	"veriscan.ai/verify-api-gateway/app/domain/common"
)

// QuotaService enforces the per-identity daily allowance of fresh pipeline
// invocations. Cache hits and coalesced followers are not charged; the
// orchestrator reserves before running the pipeline and releases when no
// chargeable run happened on the caller's behalf.
type QuotaService struct {
	repo  Repository
	limit int
	now   func() time.Time
}

func NewService(repo Repository, limit int) *QuotaService {
	return &QuotaService{
		repo:  repo,
		limit: limit,
		now:   time.Now,
	}
}

// CheckAndReserve atomically takes one unit of today's allowance. Premium
// identities are always allowed and never touch counters.
func (s *QuotaService) CheckAndReserve(ctx context.Context, identity string, isPremium bool) (bool, error) {
	if isPremium {
		return true, nil
	}
	allowed, _, err := s.repo.IncrementWithCeiling(ctx, identity, DayKey(s.now()), s.limit)
	if err != nil {
		return false, fmt.Errorf("%w: reserve quota: %v", common.ErrStoreUnavailable, err)
	}
	return allowed, nil
}

// Release returns one reserved unit, used when the reservation turned out
// not to correspond to a fresh pipeline run (coalesced follower, pipeline
// failure). The counter never goes below zero.
func (s *QuotaService) Release(ctx context.Context, identity string) error {
	if err := s.repo.Decrement(ctx, identity, DayKey(s.now())); err != nil {
		return fmt.Errorf("%w: release quota: %v", common.ErrStoreUnavailable, err)
	}
	return nil
}

// Remaining reports today's leftover allowance, Unlimited for premium.
// Read-only, for display.
func (s *QuotaService) Remaining(ctx context.Context, identity string, isPremium bool) (int, error) {
	if isPremium {
		return Unlimited, nil
	}
	consumed, err := s.repo.Consumed(ctx, identity, DayKey(s.now()))
	if err != nil {
		return 0, fmt.Errorf("%w: read quota: %v", common.ErrStoreUnavailable, err)
	}
	remaining := s.limit - consumed
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// CollectPastDays deletes counters for days before today. Past counters are
// inert, so this is pure space reclamation.
func (s *QuotaService) CollectPastDays(ctx context.Context) (int64, error) {
	removed, err := s.repo.DeleteBefore(ctx, DayKey(s.now()))
	if err != nil {
		return removed, fmt.Errorf("%w: collect quota counters: %v", common.ErrStoreUnavailable, err)
	}
	return removed, nil
}

// Limit is the configured daily allowance for non-premium identities.
func (s *QuotaService) Limit() int {
	return s.limit
}
