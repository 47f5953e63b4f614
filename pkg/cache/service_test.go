package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type page struct {
	Items []string `json:"items"`
	Total int      `json:"total"`
}

func newTestService(t *testing.T) (Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(client), mr
}

func TestGetSet(t *testing.T) {
	ctx := context.Background()
	svc, mr := newTestService(t)

	var got page
	assert.ErrorIs(t, svc.Get(ctx, "k", &got), ErrCacheMiss)

	require.NoError(t, svc.Set(ctx, "k", page{Items: []string{"a"}, Total: 1}, time.Minute))
	require.NoError(t, svc.Get(ctx, "k", &got))
	assert.Equal(t, page{Items: []string{"a"}, Total: 1}, got)

	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, svc.Get(ctx, "k", &got), ErrCacheMiss)
}

func TestGetOrSet(t *testing.T) {
	ctx := context.Background()
	svc, mr := newTestService(t)

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return page{Items: []string{"x", "y"}, Total: 2}, nil
	}

	var first, second page
	require.NoError(t, svc.GetOrSet(ctx, "queue:0:20", time.Minute, fetch, &first))
	require.NoError(t, svc.GetOrSet(ctx, "queue:0:20", time.Minute, fetch, &second))

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists("queue:0:20"))
}

func TestGetOrSet_FetcherError(t *testing.T) {
	svc, _ := newTestService(t)
	boom := errors.New("boom")

	var dest page
	err := svc.GetOrSet(context.Background(), "k", time.Minute, func() (interface{}, error) {
		return nil, boom
	}, &dest)
	assert.ErrorIs(t, err, boom)
}

func TestGetOrSet_CacheDown(t *testing.T) {
	svc, mr := newTestService(t)
	mr.Close()

	var dest page
	err := svc.GetOrSet(context.Background(), "k", time.Minute, func() (interface{}, error) {
		return page{Total: 3}, nil
	}, &dest)
	require.NoError(t, err)
	assert.Equal(t, 3, dest.Total)
}

func TestDeletePattern(t *testing.T) {
	ctx := context.Background()
	svc, mr := newTestService(t)

	require.NoError(t, svc.Set(ctx, "queue:0:20", 1, 0))
	require.NoError(t, svc.Set(ctx, "queue:1:20", 1, 0))
	require.NoError(t, svc.Set(ctx, "other", 1, 0))

	require.NoError(t, svc.DeletePattern(ctx, "queue:*"))

	assert.False(t, mr.Exists("queue:0:20"))
	assert.False(t, mr.Exists("queue:1:20"))
	assert.True(t, mr.Exists("other"))
}
