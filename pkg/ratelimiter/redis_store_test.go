package ratelimiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionguard/pkg/ratelimiter"
)

func newRedisStore(t *testing.T, clock *fakeClock) (*ratelimiter.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return ratelimiter.NewRedisStore(client, ratelimiter.WithRedisStoreClock(clock.Now)), mr
}

func TestRedisStore_ConsumeTokens(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newFakeClock()
	store, mr := newRedisStore(t, clock)

	remaining, resetAt, err := store.ConsumeTokens(ctx, "ip:1.2.3.4", 1, testConfig)
	require.NoError(t, err)
	assert.Equal(t, 4, remaining)
	assert.Equal(t, clock.Now().Add(time.Minute).UnixMilli(), resetAt.UnixMilli())

	assert.True(t, mr.Exists("ratelimit:ip:1.2.3.4"))
	assert.Positive(t, mr.TTL("ratelimit:ip:1.2.3.4"))

	remaining, _, err = store.ConsumeTokens(ctx, "ip:1.2.3.4", 5, testConfig)
	require.NoError(t, err)
	assert.Equal(t, -1, remaining)

	remaining, _, err = store.ConsumeTokens(ctx, "ip:1.2.3.4", 4, testConfig)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	clock.Advance(2 * time.Minute)
	remaining, _, err = store.ConsumeTokens(ctx, "ip:1.2.3.4", 0, testConfig)
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)

	require.NoError(t, store.Reset(ctx, "ip:1.2.3.4"))
	assert.False(t, mr.Exists("ratelimit:ip:1.2.3.4"))
}

func TestRedisStore_WithBucket(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newFakeClock()
	store, _ := newRedisStore(t, clock)
	b, err := ratelimiter.NewBucket(store, testConfig, ratelimiter.WithClock(clock.Now))
	require.NoError(t, err)

	for range testConfig.Capacity {
		res, err := b.Allow(ctx, "k")
		require.NoError(t, err)
		require.True(t, res.Allowed())
	}

	res, err := b.Allow(ctx, "k")
	require.NoError(t, err)
	assert.False(t, res.Allowed())
	assert.Equal(t, time.Minute, res.RetryAfter())
}

func TestRedisStore_Unavailable(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	store, mr := newRedisStore(t, clock)
	mr.Close()

	b, err := ratelimiter.NewBucket(store, testConfig)
	require.NoError(t, err)
	_, err = b.Allow(context.Background(), "k")
	assert.ErrorIs(t, err, ratelimiter.ErrStoreUnavailable)
}

func TestRedisStore_KeyPrefix(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := ratelimiter.NewRedisStore(client, ratelimiter.WithKeyPrefix("signin:"))
	_, _, err := store.ConsumeTokens(context.Background(), "1.2.3.4", 1, testConfig)
	require.NoError(t, err)
	assert.True(t, mr.Exists("signin:1.2.3.4"))
}
