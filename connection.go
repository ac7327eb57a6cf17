package pool

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Connection is the collaborator contract from spec §6. The pool core only
// ever calls these methods and observes Address(); opening, reading, writing
// and closing the underlying socket is entirely out of scope (spec §1).
//
// T is the thread identifier type: an opaque, comparable, caller-supplied
// token (spec §9 — "not necessarily a native OS thread").
type Connection[T comparable] interface {
	// Address returns the immutable "host:port" this connection was dialed
	// against.
	Address() string

	// ID is a diagnostic identifier for callers. The pool never consults
	// it: not for pinning, not for equality (address is the routing key,
	// pointer identity is the pinning key — spec §6), not in its own logs.
	ID() uuid.UUID

	// PinnedTo reports the thread this connection currently belongs to.
	// ok is false when the connection is unpinned.
	PinnedTo() (tid T, ok bool)

	// PinTo assigns this connection to tid. Spec §3: "these do not
	// themselves synchronize with the pool; the pool holds its own lock
	// when it calls them."
	PinTo(tid T)

	// Unpin clears the pin, making the connection's pinned_to "unpinned".
	Unpin()

	// Close releases the underlying socket. The pool never calls it:
	// Checkin, Checkout and ConnectionPool.Close all leave connections open.
	Close() error
}

// Dialer is the out-of-scope "open(host, port, timeout)" collaborator from
// spec §1 and §6. The default implementation dials a real TCP socket;
// callers of this package (e.g. a driver's higher layers) are expected to
// supply their own for anything richer (TLS, auth handshakes, etc).
type Dialer interface {
	Dial(ctx context.Context, host string, port int, timeout time.Duration) (net.Conn, error)
}

// netDialer is the default Dialer, backed by net.Dialer.
type netDialer struct{}

func (netDialer) Dial(ctx context.Context, host string, port int, timeout time.Duration) (net.Conn, error) {
	d := net.Dialer{Timeout: timeout}
	return d.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
}

// connection is the default Connection implementation: a thin wrapper
// around a dialed net.Conn plus the mutable pin state described in spec §3.
// It is never accessed concurrently without the owning pool's mutex held.
type connection[T comparable] struct {
	address string
	id      uuid.UUID
	netConn net.Conn

	pinned T
	hasPin bool
}

// splitAddress parses "host:port" per spec §6: split on the first colon,
// the remainder is host, the suffix is port.
func splitAddress(address string) (host string, port int, err error) {
	h, p, found := strings.Cut(address, ":")
	if !found {
		return "", 0, errors.Errorf("connpool: invalid address %q", address)
	}
	portNum, err := strconv.Atoi(p)
	if err != nil {
		return "", 0, errors.Wrapf(err, "connpool: invalid port in address %q", address)
	}
	return h, portNum, nil
}

// dial opens a new Connection against address using dialer, with the given
// per-connection I/O timeout. It is the only place the pool performs a
// (potentially slow) syscall, and per spec §5 it is always called with the
// pool mutex held.
func dial[T comparable](ctx context.Context, address string, dialer Dialer, timeout time.Duration) (*connection[T], error) {
	host, port, err := splitAddress(address)
	if err != nil {
		return nil, err
	}

	nc, err := dialer.Dial(ctx, host, port, timeout)
	if err != nil {
		return nil, errors.Wrapf(err, "connpool: dial %s", address)
	}

	return &connection[T]{
		address: fmt.Sprintf("%s:%d", host, port),
		id:      uuid.New(),
		netConn: nc,
	}, nil
}

func (c *connection[T]) Address() string { return c.address }
func (c *connection[T]) ID() uuid.UUID   { return c.id }

func (c *connection[T]) PinnedTo() (T, bool) { return c.pinned, c.hasPin }

func (c *connection[T]) PinTo(tid T) {
	c.pinned = tid
	c.hasPin = true
}

func (c *connection[T]) Unpin() {
	var zero T
	c.pinned = zero
	c.hasPin = false
}

func (c *connection[T]) Close() error {
	if c.netConn == nil {
		return nil
	}
	return c.netConn.Close()
}

// Equal implements the value-equality half of spec §6: "two Connections
// with the same address compare equal by value; identity is distinct."
func (c *connection[T]) Equal(other Connection[T]) bool {
	return other != nil && c.Address() == other.Address()
}
