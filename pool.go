package pool

import (
	"context"
	"sync"
	"time"
)

// ConnectionPool is the public façade from spec §4.3: it owns the capacity
// counter, the mutex, and the condition variable, and implements
// checkin/checkout/saturated/unpin_connections/max_size.
//
// T is the thread identifier type — an opaque, comparable, caller-supplied
// token (spec §9).
//
// Concurrency model (spec §5): a single mutex protects every field of
// ConnectionPool, every pinning reachable through it, and instantiated.
// pinning and connectionIndex are not independently synchronized. Opening a
// new Connection happens inside the critical section — a deliberate
// simplicity choice that serializes connection establishment and guarantees
// instantiated never exceeds MaxSize (invariant C2). Do not move connection
// dialing outside the lock without re-proving C2.
type ConnectionPool[T comparable] struct {
	mu   sync.Mutex
	cond *sync.Cond

	index        *connectionIndex[T]
	instantiated int
	closed       bool

	opts Options
}

// New constructs an empty pool (spec §4.3 "new(options)").
func New[T comparable](opts ...Option) *ConnectionPool[T] {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	o = o.norm()

	p := &ConnectionPool[T]{
		index: newConnectionIndex[T](),
		opts:  o,
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// MaxSize returns the effective maximum, memoized from options at
// construction (spec §4.3 "max_size()").
func (p *ConnectionPool[T]) MaxSize() int {
	return p.opts.MaxSize
}

// Saturated reports whether instantiated >= MaxSize (spec §4.3
// "saturated?"). Read under the mutex here for a consistent snapshot;
// external callers still only get a hint, since the answer can change the
// instant the lock is released.
func (p *ConnectionPool[T]) Saturated() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saturatedLocked()
}

func (p *ConnectionPool[T]) saturatedLocked() bool {
	return p.instantiated >= p.opts.MaxSize
}

// Checkin returns connection to the pool (spec §4.3 "checkin"). The
// connection must carry a pin (PinnedTo must report ok == true); the
// pinning uses it as the key. Checking in a connection never allocates a
// new slot in the capacity counter.
func (p *ConnectionPool[T]) Checkin(c Connection[T]) error {
	tid, ok := c.PinnedTo()
	if !ok {
		return ErrWrongConnection
	}

	p.mu.Lock()
	pinning := p.index.get(c.Address())
	pinning.set(c)
	// Broadcast wakes every waiter on the pool's condition variable
	// regardless of the address they want (spec §5): signal (wake-one)
	// is insufficient because a waiter woken for a different address
	// must yield to whichever waiter actually wants this one. Each
	// waiter re-checks independently on wake.
	p.cond.Broadcast()
	p.mu.Unlock()

	p.opts.Logger.Debug().
		Str("address", c.Address()).
		Interface("thread", tid).
		Msg("connpool: checkin")
	return nil
}

// Checkout acquires a connection pinned to tid for address, blocking until
// one becomes available or timeout elapses (spec §4.3 "checkout"). A
// timeout <= 0 uses the spec default of 250ms.
//
// Open questions resolved as specified (spec §9, see DESIGN.md):
//   - two concurrent checkouts for the same (tid, address) before either
//     checks in produce two distinct connections;
//   - a thread that never checks in after a create-branch checkout leaks
//     one unit of capacity forever; this package has no reclamation.
func (p *ConnectionPool[T]) Checkout(ctx context.Context, tid T, address string, timeout time.Duration) (Connection[T], error) {
	if timeout <= 0 {
		timeout = defaultCheckoutTimeout
	}
	deadline := time.Now().Add(timeout)

	p.mu.Lock()

	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}

	pinning := p.index.get(address)

	if c := pinning.get(tid); c != nil {
		p.mu.Unlock()
		p.opts.Logger.Debug().Str("address", address).Interface("thread", tid).Msg("connpool: checkout hit")
		return c, nil
	}

	if !p.saturatedLocked() {
		c, err := dial[T](ctx, address, p.opts.Dialer, p.opts.Timeout)
		if err != nil {
			p.mu.Unlock()
			p.opts.Logger.Error().Err(err).Str("address", address).Msg("connpool: dial failed")
			return nil, err
		}
		// instantiated is bumped only after the dial succeeds, and only
		// while holding the mutex (invariant C2).
		p.instantiated++
		c.PinTo(tid)
		p.mu.Unlock()

		p.opts.Logger.Debug().Str("address", address).Interface("thread", tid).Msg("connpool: checkout created")
		return c, nil
	}

	p.opts.Logger.Warn().Str("address", address).Interface("thread", tid).Msg("connpool: pool saturated, waiting")
	return p.waitForConnection(pinning, tid, address, deadline)
}

// waitForConnection is spec §4.3.1's wait loop. Called with p.mu held; it
// always returns with p.mu released.
//
// sync.Cond has no built-in deadline, so each iteration arms a one-shot
// timer that broadcasts once the deadline passes — this guarantees the
// waiter wakes even if no other checkin ever arrives, while preserving the
// "broadcast + re-check" pattern spec §5 requires: every iteration
// re-queries the pinning before deciding to keep waiting or give up.
func (p *ConnectionPool[T]) waitForConnection(pinning *pinning[T], tid T, address string, deadline time.Time) (Connection[T], error) {
	for {
		if c := pinning.get(tid); c != nil {
			p.mu.Unlock()
			return c, nil
		}
		if p.closed {
			p.mu.Unlock()
			return nil, ErrPoolClosed
		}

		wait := time.Until(deadline)
		if wait <= 0 {
			p.mu.Unlock()
			return nil, ErrMaxReached
		}

		timer := time.AfterFunc(wait, p.cond.Broadcast)
		p.cond.Wait() // atomically unlocks p.mu, blocks, relocks before returning
		timer.Stop()
	}
}

// UnpinConnections transfers every connection currently pinned to tid, in
// every address's pinning, into that pinning's unpinned list (spec §4.3
// "unpin_connections").
//
// Deliberately does not broadcast, even though it makes connections
// available to other threads (spec §9, open question #3 — implemented as
// specified, not guessed at): a waiter blocked in Checkout will only be
// woken by the next Checkin or its own deadline timer.
func (p *ConnectionPool[T]) UnpinConnections(tid T) {
	p.mu.Lock()
	p.index.unpin(tid)
	p.mu.Unlock()
}

// Close marks the pool closed: further Checkout calls fail fast with
// ErrPoolClosed instead of creating connections or blocking forever, and
// every blocked waiter is woken to observe the closed state. This is
// lifecycle management, not health-checking or eviction (both remain
// Non-goals per spec §1) — see SPEC_FULL.md.
func (p *ConnectionPool[T]) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	p.cond.Broadcast()
	return nil
}
