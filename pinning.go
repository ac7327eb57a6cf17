package pool

// pinning is the per-address bookkeeping object from spec §3/§4.1: one
// instance per address, tracking which connections are pinned to which
// thread and which are physically resident but currently unpinned.
//
// All three operations are called with the owning ConnectionPool's mutex
// held; pinning carries no lock of its own (spec §4.1: "Pinning itself
// carries no lock").
//
// Invariants (spec §3):
//   - P1: every Connection in threads[t] has pinned_to == t.
//   - P2: every Connection in unpinned has pinned_to == unpinned (hasPin == false).
//   - P3: a Connection appears in at most one of the two collections.
type pinning[T comparable] struct {
	threads  map[T]Connection[T]
	unpinned stack[Connection[T]]
}

func newPinning[T comparable]() *pinning[T] {
	return &pinning[T]{threads: make(map[T]Connection[T])}
}

// get implements spec §4.1 get(thread_id): exact match first, then promote
// the most-recently-unpinned connection. Returns nil if neither yields one.
//
// The two-step lookup gives strong thread affinity when available and
// graceful reassignment otherwise; the LIFO order on unpinned keeps hot
// connections warm.
func (p *pinning[T]) get(tid T) Connection[T] {
	if c, ok := p.threads[tid]; ok {
		return c
	}

	c, ok := p.unpinned.pop()
	if !ok {
		return nil
	}
	c.PinTo(tid)
	p.threads[tid] = c
	return c
}

// set inserts connection into threads[connection.PinnedTo()], overwriting
// any previous binding at that key. Used by checkin to make a returned
// connection resident again.
func (p *pinning[T]) set(c Connection[T]) {
	tid, ok := c.PinnedTo()
	if !ok {
		return // guarded by ConnectionPool.Checkin before calling set
	}
	p.threads[tid] = c
}

// unpin removes threads[tid], if present, clears its pin and pushes it onto
// unpinned. Returns the connection that was unpinned, or nil.
func (p *pinning[T]) unpin(tid T) Connection[T] {
	c, ok := p.threads[tid]
	if !ok {
		return nil
	}
	delete(p.threads, tid)
	c.Unpin()
	p.unpinned.push(c)
	return c
}

// residentCount returns the number of connections this pinning currently
// holds (checked in, either pinned or unpinned) — used by Stats.
func (p *pinning[T]) residentCount() (pinned, unpinned int) {
	return len(p.threads), p.unpinned.len()
}
