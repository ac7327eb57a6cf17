package pool

// PoolError is a sentinel error returned by ConnectionPool methods. It carries
// no payload, matching spec §6's "MaxReached... carries no payload."
type PoolError string

func (e PoolError) Error() string { return string(e) }

const (
	// ErrMaxReached is returned by checkout when the deadline passes with no
	// connection available. The pool's state is unchanged (spec §7).
	ErrMaxReached = PoolError("connpool: max pool size reached, no connection became available before the deadline")

	// ErrPoolClosed is returned by checkout once the pool has been closed.
	// Lifecycle management, not health-checking — see SPEC_FULL.md.
	ErrPoolClosed = PoolError("connpool: pool is closed")

	// ErrWrongConnection is returned by checkin when the connection being
	// returned does not carry a pin (pinned_to must be set; spec §4.3).
	ErrWrongConnection = PoolError("connpool: connection has no pin, cannot check in")
)
