package ratelimiter_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionguard/pkg/ratelimiter"
)

type failingStore struct{}

func (failingStore) ConsumeTokens(context.Context, string, int, ratelimiter.Config) (int, time.Time, error) {
	return 0, time.Time{}, errors.New("connection refused")
}

func (failingStore) Reset(context.Context, string) error {
	return errors.New("connection refused")
}

func TestNewBucket(t *testing.T) {
	t.Parallel()

	_, err := ratelimiter.NewBucket(nil, testConfig)
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)

	for _, cfg := range []ratelimiter.Config{
		{Capacity: 0, RefillRate: 1, RefillInterval: time.Second},
		{Capacity: 1, RefillRate: 0, RefillInterval: time.Second},
		{Capacity: 1, RefillRate: 1, RefillInterval: 0},
	} {
		_, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), cfg)
		assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig, "%+v", cfg)
	}
}

func TestBucket_Allow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newFakeClock()
	store := ratelimiter.NewMemoryStore(ratelimiter.WithMemoryStoreClock(clock.Now))
	b, err := ratelimiter.NewBucket(store, testConfig, ratelimiter.WithClock(clock.Now))
	require.NoError(t, err)

	for i := range testConfig.Capacity {
		res, err := b.Allow(ctx, "ip:1.2.3.4")
		require.NoError(t, err)
		assert.True(t, res.Allowed())
		assert.Equal(t, testConfig.Capacity-i-1, res.Remaining)
		assert.Equal(t, testConfig.Capacity, res.Limit)
		assert.Zero(t, res.RetryAfter())
	}

	res, err := b.Allow(ctx, "ip:1.2.3.4")
	require.NoError(t, err)
	assert.False(t, res.Allowed())
	assert.Equal(t, time.Minute, res.RetryAfter())

	// Other keys are independent.
	res, err = b.Allow(ctx, "ip:5.6.7.8")
	require.NoError(t, err)
	assert.True(t, res.Allowed())

	clock.Advance(time.Minute)
	res, err = b.Allow(ctx, "ip:1.2.3.4")
	require.NoError(t, err)
	assert.True(t, res.Allowed())
	assert.Equal(t, 0, res.Remaining)
}

func TestBucket_AllowN(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newFakeClock()
	store := ratelimiter.NewMemoryStore(ratelimiter.WithMemoryStoreClock(clock.Now))
	b, err := ratelimiter.NewBucket(store, testConfig, ratelimiter.WithClock(clock.Now))
	require.NoError(t, err)

	_, err = b.AllowN(ctx, "k", 0)
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)
	_, err = b.AllowN(ctx, "k", testConfig.Capacity+1)
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)

	res, err := b.AllowN(ctx, "k", 4)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Remaining)

	res, err = b.AllowN(ctx, "k", 4)
	require.NoError(t, err)
	assert.False(t, res.Allowed())
	// Three tokens short at one token per minute.
	assert.Equal(t, 3*time.Minute, res.RetryAfter())

	status, err := b.Status(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 1, status.Remaining)

	require.NoError(t, b.Reset(ctx, "k"))
	status, err = b.Status(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, testConfig.Capacity, status.Remaining)
}

func TestBucket_StoreErrors(t *testing.T) {
	t.Parallel()

	b, err := ratelimiter.NewBucket(failingStore{}, testConfig)
	require.NoError(t, err)

	_, err = b.Allow(context.Background(), "k")
	assert.ErrorIs(t, err, ratelimiter.ErrStoreUnavailable)
	assert.ErrorIs(t, b.Reset(context.Background(), "k"), ratelimiter.ErrStoreUnavailable)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = b.Allow(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}
