package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisLocker(t *testing.T, opts Options) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	locker, err := NewRedisLocker(client, opts)
	require.NoError(t, err)

	return locker, mr
}

func TestNewRedisLocker_NilClient(t *testing.T) {
	locker, err := NewRedisLocker(nil, DefaultOptions())
	assert.Nil(t, locker)
	assert.ErrorIs(t, err, ErrNilClient)
}

func TestRedisLocker_WithLockReleasesKey(t *testing.T) {
	locker, mr := setupRedisLocker(t, DefaultOptions())
	ctx := context.Background()

	executed := false
	err := locker.WithLock(ctx, "cell:42", func(ctx context.Context) error {
		executed = true
		assert.True(t, mr.Exists(redisKeyPrefix+"cell:42"), "lock key must exist while held")
		return nil
	})

	require.NoError(t, err)
	assert.True(t, executed)
	assert.False(t, mr.Exists(redisKeyPrefix+"cell:42"), "lock key must be removed after release")
}

func TestRedisLocker_SerializesConcurrentCallers(t *testing.T) {
	locker, _ := setupRedisLocker(t, Options{
		Timeout:    5 * time.Second,
		Expiry:     5 * time.Second,
		RetryDelay: 5 * time.Millisecond,
	})
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		inside  int32
		overlap int32
		counter int32
	)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := locker.WithLock(ctx, "cell:shared", func(ctx context.Context) error {
				if atomic.AddInt32(&inside, 1) > 1 {
					atomic.StoreInt32(&overlap, 1)
				}
				atomic.AddInt32(&counter, 1)
				time.Sleep(2 * time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}

	wg.Wait()
	assert.Equal(t, int32(10), counter)
	assert.Equal(t, int32(0), overlap)
}

func TestRedisLocker_TimeoutWhenHeld(t *testing.T) {
	locker, mr := setupRedisLocker(t, Options{
		Timeout:    50 * time.Millisecond,
		Expiry:     time.Minute,
		RetryDelay: 10 * time.Millisecond,
	})

	// another instance holds the lock
	require.NoError(t, mr.Set(redisKeyPrefix+"cell:busy", "someone-else"))

	called := false
	err := locker.WithLock(context.Background(), "cell:busy", func(ctx context.Context) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, ErrLockTimeout)
	assert.False(t, called)
}
