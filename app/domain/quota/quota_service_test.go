package quota

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"veriscan.ai/verify-api-gateway/app/domain/common"
)

// fakeRepo is an in-memory Repository with fault injection.
type fakeRepo struct {
	mu       sync.Mutex
	counters map[string]int
	incrErr  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{counters: make(map[string]int)}
}

func (r *fakeRepo) key(identity, day string) string {
	return identity + "|" + day
}

func (r *fakeRepo) IncrementWithCeiling(ctx context.Context, identity, day string, limit int) (bool, int, error) {
	if r.incrErr != nil {
		return false, 0, r.incrErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := r.key(identity, day)
	if r.counters[key] >= limit {
		return false, r.counters[key], nil
	}
	r.counters[key]++
	return true, r.counters[key], nil
}

func (r *fakeRepo) Decrement(ctx context.Context, identity, day string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := r.key(identity, day)
	if r.counters[key] > 0 {
		r.counters[key]--
	}
	return nil
}

func (r *fakeRepo) Consumed(ctx context.Context, identity, day string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters[r.key(identity, day)], nil
}

func (r *fakeRepo) DeleteBefore(ctx context.Context, day string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for key := range r.counters {
		if key[len(key)-len(day):] < day {
			delete(r.counters, key)
			removed++
		}
	}
	return removed, nil
}

func newTestQuotaService(repo Repository, limit int, at time.Time) (*QuotaService, *time.Time) {
	clock := at
	svc := NewService(repo, limit)
	svc.now = func() time.Time { return clock }
	return svc, &clock
}

func TestDayKeyUsesUTC(t *testing.T) {
	karachi := time.FixedZone("PKT", 5*60*60)
	// 02:00 on March 2nd in Karachi is still March 1st in UTC.
	at := time.Date(2026, 3, 2, 2, 0, 0, 0, karachi)
	require.Equal(t, "2026-03-01", DayKey(at))
	require.Equal(t, "2026-03-02", DayKey(time.Date(2026, 3, 2, 2, 0, 0, 0, time.UTC)))
}

func TestIdentityHelpers(t *testing.T) {
	require.Equal(t, "authenticated:user-42", AuthenticatedIdentity("user-42"))
	require.Equal(t, "guest:device-9", GuestIdentity("device-9"))
	require.NotEqual(t, AuthenticatedIdentity("x"), GuestIdentity("x"))
}

func TestCheckAndReserveEnforcesLimit(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc, _ := newTestQuotaService(repo, 3, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))
	identity := GuestIdentity("device-1")

	for i := 0; i < 3; i++ {
		allowed, err := svc.CheckAndReserve(ctx, identity, false)
		require.NoError(t, err)
		require.True(t, allowed, "reservation %d within the limit", i+1)
	}

	allowed, err := svc.CheckAndReserve(ctx, identity, false)
	require.NoError(t, err)
	require.False(t, allowed)

	// A denied attempt must not consume anything.
	remaining, err := svc.Remaining(ctx, identity, false)
	require.NoError(t, err)
	require.Equal(t, 0, remaining)
}

func TestReleaseRestoresAllowance(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc, _ := newTestQuotaService(repo, 3, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))
	identity := AuthenticatedIdentity("user-1")

	for i := 0; i < 3; i++ {
		allowed, err := svc.CheckAndReserve(ctx, identity, false)
		require.NoError(t, err)
		require.True(t, allowed)
	}
	require.NoError(t, svc.Release(ctx, identity))

	allowed, err := svc.CheckAndReserve(ctx, identity, false)
	require.NoError(t, err)
	require.True(t, allowed, "released unit is reservable again")

	allowed, err = svc.CheckAndReserve(ctx, identity, false)
	require.NoError(t, err)
	require.False(t, allowed)
}

func TestReleaseFloorsAtZero(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc, _ := newTestQuotaService(repo, 2, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))
	identity := GuestIdentity("device-2")

	require.NoError(t, svc.Release(ctx, identity))
	remaining, err := svc.Remaining(ctx, identity, false)
	require.NoError(t, err)
	require.Equal(t, 2, remaining, "spurious release never creates extra allowance")
}

func TestPremiumBypassesQuota(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc, _ := newTestQuotaService(repo, 1, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))
	identity := AuthenticatedIdentity("premium-user")

	for i := 0; i < 10; i++ {
		allowed, err := svc.CheckAndReserve(ctx, identity, true)
		require.NoError(t, err)
		require.True(t, allowed)
	}
	require.Empty(t, repo.counters, "premium reservations never touch counters")

	remaining, err := svc.Remaining(ctx, identity, true)
	require.NoError(t, err)
	require.Equal(t, Unlimited, remaining)
}

func TestQuotaResetsAtUTCDayBoundary(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc, clock := newTestQuotaService(repo, 1, time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC))
	identity := GuestIdentity("device-3")

	allowed, err := svc.CheckAndReserve(ctx, identity, false)
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = svc.CheckAndReserve(ctx, identity, false)
	require.NoError(t, err)
	require.False(t, allowed)

	*clock = time.Date(2026, 3, 2, 0, 0, 1, 0, time.UTC)
	allowed, err = svc.CheckAndReserve(ctx, identity, false)
	require.NoError(t, err)
	require.True(t, allowed, "allowance resets on the next UTC day")
}

func TestRemainingClampsAndReports(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc, _ := newTestQuotaService(repo, 3, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))
	identity := GuestIdentity("device-4")

	remaining, err := svc.Remaining(ctx, identity, false)
	require.NoError(t, err)
	require.Equal(t, 3, remaining)

	allowed, err := svc.CheckAndReserve(ctx, identity, false)
	require.NoError(t, err)
	require.True(t, allowed)

	remaining, err = svc.Remaining(ctx, identity, false)
	require.NoError(t, err)
	require.Equal(t, 2, remaining)
}

func TestCheckAndReserveWrapsStoreError(t *testing.T) {
	repo := newFakeRepo()
	repo.incrErr = errors.New("connection reset")
	svc, _ := newTestQuotaService(repo, 3, time.Now())

	_, err := svc.CheckAndReserve(context.Background(), GuestIdentity("device-5"), false)
	require.ErrorIs(t, err, common.ErrStoreUnavailable)
}

func TestCollectPastDaysRemovesOnlyPastCounters(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc, clock := newTestQuotaService(repo, 3, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))
	identity := GuestIdentity("device-6")

	allowed, err := svc.CheckAndReserve(ctx, identity, false)
	require.NoError(t, err)
	require.True(t, allowed)

	*clock = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	allowed, err = svc.CheckAndReserve(ctx, identity, false)
	require.NoError(t, err)
	require.True(t, allowed)

	removed, err := svc.CollectPastDays(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)

	remaining, err := svc.Remaining(ctx, identity, false)
	require.NoError(t, err)
	require.Equal(t, 2, remaining, "today's counter survives collection")
}
