package lock

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "popupzone:lock:"

// ErrNilClient is returned when a RedisLocker is built without a client.
var ErrNilClient = errors.New("redis client is nil")

// RedisLocker is a distributed Locker using the RedLock algorithm through
// redsync, so that several server instances share one critical section per
// key.
type RedisLocker struct {
	redsync *redsync.Redsync
	opts    Options
}

// NewRedisLocker creates a distributed locker on top of a go-redis client.
func NewRedisLocker(client *redis.Client, opts Options) (*RedisLocker, error) {
	if client == nil {
		return nil, ErrNilClient
	}

	return &RedisLocker{
		redsync: redsync.New(goredis.NewPool(client)),
		opts:    opts.withDefaults(),
	}, nil
}

func (r *RedisLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	if key == "" {
		return ErrEmptyKey
	}
	if fn == nil {
		return ErrNilFn
	}

	mutex := r.redsync.NewMutex(redisKeyPrefix+key,
		redsync.WithExpiry(r.opts.Expiry),
		redsync.WithTries(r.tries()),
		redsync.WithRetryDelay(r.opts.RetryDelay),
		redsync.WithDriftFactor(r.opts.DriftFactor),
	)

	lockCtx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	if err := mutex.LockContext(lockCtx); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrLockTimeout, key, err)
	}

	defer func() {
		// the caller's context may be done by now; the unlock must still go out
		_, _ = mutex.UnlockContext(context.WithoutCancel(ctx))
	}()

	return fn(ctx)
}

// tries spreads acquisition attempts over the whole timeout.
func (r *RedisLocker) tries() int {
	n := int(r.opts.Timeout / r.opts.RetryDelay)
	if n < 1 {
		return 1
	}
	return n
}
