package ratelimiter

import (
	"context"
	"errors"
	"time"
)

// Config describes a token bucket: Capacity tokens at most, RefillRate tokens
// added every RefillInterval.
type Config struct {
	Capacity       int           `env:"RATE_LIMIT_CAPACITY" envDefault:"5"`
	RefillRate     int           `env:"RATE_LIMIT_REFILL_RATE" envDefault:"1"`
	RefillInterval time.Duration `env:"RATE_LIMIT_REFILL_INTERVAL" envDefault:"1m"`
}

// Validate reports ErrInvalidConfig for non-positive values.
func (c Config) Validate() error {
	if c.Capacity <= 0 || c.RefillRate <= 0 || c.RefillInterval <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// Store persists bucket state.
//
// ConsumeTokens refills the bucket for the elapsed time and then takes tokens
// only if enough are available. remaining is the token count after the call;
// a negative value means the request was denied and that many tokens are
// missing. resetAt is when the next refill happens.
type Store interface {
	ConsumeTokens(ctx context.Context, key string, tokens int, cfg Config) (remaining int, resetAt time.Time, err error)
	Reset(ctx context.Context, key string) error
}

// RateLimiter decides whether an action identified by key may proceed.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
	AllowN(ctx context.Context, key string, n int) (*Result, error)
	Reset(ctx context.Context, key string) error
}

// Result is the outcome of a rate limit check.
type Result struct {
	Limit      int
	Remaining  int
	ResetAt    time.Time
	retryAfter time.Duration
}

// Allowed reports whether the tokens were granted.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter returns how long to wait before the same request can succeed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return r.retryAfter
}

// Bucket implements RateLimiter with the token bucket algorithm over a Store.
type Bucket struct {
	store  Store
	config Config
	now    func() time.Time
}

var _ RateLimiter = (*Bucket)(nil)

// BucketOption configures a Bucket.
type BucketOption func(*Bucket)

// WithClock replaces time.Now when computing RetryAfter. Use the same clock as
// the store.
func WithClock(now func() time.Time) BucketOption {
	return func(b *Bucket) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBucket validates cfg and returns a Bucket backed by store.
func NewBucket(store Store, cfg Config, opts ...BucketOption) (*Bucket, error) {
	if store == nil {
		return nil, errors.Join(ErrInvalidConfig, errors.New("store is nil"))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := &Bucket{store: store, config: cfg, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Allow consumes one token.
func (b *Bucket) Allow(ctx context.Context, key string) (*Result, error) {
	return b.AllowN(ctx, key, 1)
}

// AllowN consumes n tokens, or none if fewer than n are available.
func (b *Bucket) AllowN(ctx context.Context, key string, n int) (*Result, error) {
	if n <= 0 || n > b.config.Capacity {
		return nil, ErrInvalidTokenCount
	}
	return b.consume(ctx, key, n)
}

// Status reports the bucket state without consuming anything.
func (b *Bucket) Status(ctx context.Context, key string) (*Result, error) {
	return b.consume(ctx, key, 0)
}

// Reset restores the bucket for key to full capacity.
func (b *Bucket) Reset(ctx context.Context, key string) error {
	if err := b.store.Reset(ctx, key); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (b *Bucket) consume(ctx context.Context, key string, n int) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	remaining, resetAt, err := b.store.ConsumeTokens(ctx, key, n, b.config)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	res := &Result{
		Limit:     b.config.Capacity,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
	if remaining < 0 {
		// Refills still needed beyond the next one.
		extra := (-remaining + b.config.RefillRate - 1) / b.config.RefillRate
		wait := resetAt.Sub(b.now()) + time.Duration(extra-1)*b.config.RefillInterval
		res.retryAfter = max(wait, 0)
	}
	return res, nil
}
