package quota

import (
	"context"
	"time"
)

// Unlimited is the Remaining sentinel for premium identities.
const Unlimited = -1

// Identity prefixes. Guests are keyed by device, authenticated callers by
// account; the quota contract is identical for both, only the string
// differs.
const (
	identityPrefixAuthenticated = "authenticated:"
	identityPrefixGuest         = "guest:"
)

// AuthenticatedIdentity builds the quota identity for an account.
func AuthenticatedIdentity(userID string) string {
	return identityPrefixAuthenticated + userID
}

// GuestIdentity builds the quota identity for an anonymous device.
func GuestIdentity(deviceID string) string {
	return identityPrefixGuest + deviceID
}

// DayKey is the canonical calendar day of t. Days are defined in UTC so
// counters reset deterministically regardless of server or caller locale.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Counter tracks fresh pipeline invocations for one identity on one day.
// Counters for past days are inert and garbage-collected.
type Counter struct {
	Identity string
	Day      string
	Consumed int
	Limit    int
}

// Repository is the durable-store contract for quota counters.
// IncrementWithCeiling must be atomic with respect to concurrent calls for
// the same (identity, day): it creates the counter at zero when absent,
// and either increments and allows, or leaves the counter untouched and
// denies. Decrement never takes a counter below zero.
type Repository interface {
	IncrementWithCeiling(ctx context.Context, identity, day string, limit int) (allowed bool, consumed int, err error)
	Decrement(ctx context.Context, identity, day string) error
	Consumed(ctx context.Context, identity, day string) (int, error)
	DeleteBefore(ctx context.Context, day string) (int64, error)
}
