package verification

import (
	"context"
	"sync"
)

type flightCall struct {
	done   chan struct{}
	result *VerificationResult
	err    error
}

// FlightGroup coalesces concurrent pipeline invocations per cache key: the
// first caller for a key runs the work, every concurrent duplicate attaches
// to the same pending outcome, and the in-flight record is removed exactly
// once when the work settles.
type FlightGroup struct {
	mu    sync.Mutex
	calls map[string]*flightCall
}

func NewFlightGroup() *FlightGroup {
	return &FlightGroup{
		calls: make(map[string]*flightCall),
	}
}

// Do runs fn for key, or joins an in-flight run of it. The second return
// value reports whether this caller was the leader that actually invoked
// fn. fn receives a context detached from cancellation: a follower (or the
// leader's client) going away must not cancel work other waiters and future
// cache reads still benefit from, so fn applies its own deadline. A
// follower whose own context is cancelled stops waiting and gets ctx.Err().
func (g *FlightGroup) Do(ctx context.Context, key string, fn func(ctx context.Context) (*VerificationResult, error)) (*VerificationResult, bool, error) {
	g.mu.Lock()
	if c, ok := g.calls[key]; ok {
		g.mu.Unlock()
		select {
		case <-c.done:
			return c.result, false, c.err
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
	}
	c := &flightCall{done: make(chan struct{})}
	g.calls[key] = c
	g.mu.Unlock()

	c.result, c.err = fn(context.WithoutCancel(ctx))

	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()
	close(c.done)

	return c.result, true, c.err
}

// InFlight reports how many keys currently have a pending pipeline call.
func (g *FlightGroup) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}
