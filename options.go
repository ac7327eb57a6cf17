package pool

import (
	"time"

	"github.com/rs/zerolog"
)

const (
	// defaultMaxSize is spec §4.3's "new(options)" default: max_size = 5.
	defaultMaxSize = 5

	// defaultCheckoutTimeout is spec §4.3's checkout default timeout.
	defaultCheckoutTimeout = 250 * time.Millisecond
)

// Options are the frozen construction options from spec §6. Unknown keys
// are inapplicable in Go (the struct is closed), which trivially satisfies
// "unknown keys are ignored."
type Options struct {
	// MaxSize bounds the number of live connections. Default: 5.
	MaxSize int

	// Timeout is the per-connection I/O timeout forwarded to newly dialed
	// Connections. Unset (zero) means no timeout is forwarded, matching
	// spec §4.3's "timeout: seconds (pass-through); default unspecified."
	Timeout time.Duration

	// Dialer opens new connections. Defaults to a net.Dialer-backed
	// implementation.
	Dialer Dialer

	// Logger receives structured events for checkout/checkin/promotion and
	// blocking waits. Defaults to a disabled logger (zerolog.Nop()).
	Logger *zerolog.Logger
}

// Option mutates Options during construction, following the pack-wide
// functional-options convention grounded in bsm/pool's Options.norm().
type Option func(*Options)

// WithMaxSize sets the pool's maximum live-connection count.
func WithMaxSize(n int) Option {
	return func(o *Options) { o.MaxSize = n }
}

// WithTimeout sets the per-connection I/O timeout forwarded to Connections.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) { o.Timeout = d }
}

// WithDialer overrides the default net.Dialer-backed Dialer.
func WithDialer(d Dialer) Option {
	return func(o *Options) { o.Dialer = d }
}

// WithLogger attaches a structured logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.Logger = &l }
}

// norm returns a normalized copy of o with defaults applied, mirroring
// bsm/pool's Options.norm().
func (o Options) norm() Options {
	x := o
	if x.MaxSize <= 0 {
		x.MaxSize = defaultMaxSize
	}
	if x.Dialer == nil {
		x.Dialer = netDialer{}
	}
	if x.Logger == nil {
		nop := zerolog.Nop()
		x.Logger = &nop
	}
	return x
}
