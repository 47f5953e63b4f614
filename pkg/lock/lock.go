package lock

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrLockTimeout is returned when a lock could not be acquired within the
	// configured wait. It is transient and safe to retry.
	ErrLockTimeout = errors.New("lock acquisition timed out")
	// ErrEmptyKey is returned when an empty lock key is provided.
	ErrEmptyKey = errors.New("lock key cannot be empty")
	// ErrNilFn is returned when a nil function is passed to WithLock.
	ErrNilFn = errors.New("lock function is nil")
)

// Locker serializes critical sections by key. Different keys never block
// each other.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// Options configures lock behavior.
type Options struct {
	// Timeout bounds how long WithLock waits before failing with ErrLockTimeout.
	Timeout time.Duration

	// Expiry is how long a distributed lock lives before auto-expiring.
	// Ignored by the in-process implementation.
	Expiry time.Duration

	// RetryDelay is the delay between distributed acquisition attempts.
	RetryDelay time.Duration

	// DriftFactor accounts for clock drift between Redis nodes.
	DriftFactor float64
}

// DefaultOptions returns defaults tuned for short placement critical sections.
func DefaultOptions() Options {
	return Options{
		Timeout:     3 * time.Second,
		Expiry:      10 * time.Second,
		RetryDelay:  50 * time.Millisecond,
		DriftFactor: 0.01,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Timeout <= 0 {
		o.Timeout = def.Timeout
	}
	if o.Expiry <= 0 {
		o.Expiry = def.Expiry
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = def.RetryDelay
	}
	if o.DriftFactor < 0 || o.DriftFactor >= 1 {
		o.DriftFactor = def.DriftFactor
	}
	return o
}
