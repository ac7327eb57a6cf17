package pool

import "fmt"

// Stats is a read-only, mutex-guarded snapshot of a ConnectionPool, for
// observability. Deliberately not a metrics subsystem — metrics remain an
// external collaborator per spec §1 — just a plain struct returned by
// value.
type Stats struct {
	// Instantiated is the total number of live connections this pool has
	// ever created (spec's "instantiated" counter). Per invariant C3, the
	// core never decrements this.
	Instantiated int

	// MaxSize is the pool's configured capacity.
	MaxSize int

	// PerAddress breaks resident connections down by address.
	PerAddress map[string]AddressStats
}

// AddressStats is the per-address portion of Stats.
type AddressStats struct {
	// Pinned is the number of connections currently resident and pinned
	// to a thread (checked in, not checked out).
	Pinned int
	// Unpinned is the number of connections currently resident and
	// bearing no pin.
	Unpinned int
}

// Stats returns a snapshot of the pool's current state.
func (p *ConnectionPool[T]) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Stats{
		Instantiated: p.instantiated,
		MaxSize:      p.opts.MaxSize,
		PerAddress:   make(map[string]AddressStats, len(p.index.pinnings)),
	}
	for addr, pn := range p.index.pinnings {
		pinned, unpinned := pn.residentCount()
		s.PerAddress[addr] = AddressStats{Pinned: pinned, Unpinned: unpinned}
	}
	return s
}

// String renders a one-line summary, for log-friendly use.
func (p *ConnectionPool[T]) String() string {
	s := p.Stats()
	return fmt.Sprintf("ConnectionPool{instantiated=%d, max_size=%d, addresses=%d}",
		s.Instantiated, s.MaxSize, len(s.PerAddress))
}
