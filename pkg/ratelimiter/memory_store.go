package ratelimiter

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/sessionguard/core/logger"
)

// staleAfter is how long an untouched bucket is kept before cleanup drops it.
const staleAfter = time.Hour

type bucket struct {
	tokens     int
	lastRefill time.Time
	lastAccess time.Time
}

// MemoryStore keeps buckets in process memory. It suits a single instance;
// use RedisStore when several instances share limits.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket

	cleanupInterval time.Duration
	logger          *slog.Logger
	now             func() time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

var _ Store = (*MemoryStore)(nil)

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets how often stale buckets are removed.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		ms.cleanupInterval = interval
	}
}

// WithMemoryStoreLogger sets the logger for cleanup events.
func WithMemoryStoreLogger(l *slog.Logger) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if l != nil {
			ms.logger = l
		}
	}
}

// WithMemoryStoreClock replaces time.Now, mainly for tests.
func WithMemoryStoreClock(now func() time.Time) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if now != nil {
			ms.now = now
		}
	}
}

// NewMemoryStore creates an empty store. Call Start (or Run) to enable
// background cleanup.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		buckets:         make(map[string]*bucket),
		cleanupInterval: 5 * time.Minute,
		logger:          logger.Discard(),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(ms)
	}
	return ms
}

// ConsumeTokens implements Store.
func (ms *MemoryStore) ConsumeTokens(_ context.Context, key string, tokens int, cfg Config) (int, time.Time, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	b, ok := ms.buckets[key]
	if !ok {
		b = &bucket{tokens: cfg.Capacity, lastRefill: now}
		ms.buckets[key] = b
	}

	// Cap intervals so huge gaps cannot overflow the multiplication.
	maxIntervals := int64(cfg.Capacity/cfg.RefillRate + 1)
	intervals := int(min(int64(now.Sub(b.lastRefill)/cfg.RefillInterval), maxIntervals))
	if intervals > 0 {
		b.tokens = min(b.tokens+intervals*cfg.RefillRate, cfg.Capacity)
		b.lastRefill = now
	}
	b.lastAccess = now

	remaining := b.tokens - tokens
	if remaining >= 0 {
		b.tokens = remaining
	}

	return remaining, b.lastRefill.Add(cfg.RefillInterval), nil
}

// Reset implements Store.
func (ms *MemoryStore) Reset(_ context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.buckets, key)
	return nil
}

// Len returns the number of tracked buckets.
func (ms *MemoryStore) Len() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.buckets)
}

// Running reports whether background cleanup is active.
func (ms *MemoryStore) Running() bool {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.cancel != nil
}

// Start runs cleanup until ctx is cancelled or Stop is called. It blocks.
func (ms *MemoryStore) Start(ctx context.Context) error {
	if ms.cleanupInterval <= 0 {
		return errors.Join(ErrInvalidConfig, errors.New("cleanup interval must be positive"))
	}

	ms.mu.Lock()
	if ms.cancel != nil {
		ms.mu.Unlock()
		return ErrAlreadyStarted
	}
	ctx, cancel := context.WithCancel(ctx)
	ms.cancel = cancel
	done := make(chan struct{})
	ms.done = done
	ms.mu.Unlock()

	defer func() {
		cancel()
		ms.mu.Lock()
		if ms.done == done {
			ms.cancel, ms.done = nil, nil
		}
		ms.mu.Unlock()
		close(done)
	}()

	ms.logger.InfoContext(ctx, "rate limiter cleanup started",
		logger.Component("ratelimiter"),
		slog.Duration("interval", ms.cleanupInterval))

	ticker := time.NewTicker(ms.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := ms.removeStale(); n > 0 {
				ms.logger.DebugContext(ctx, "removed stale buckets",
					logger.Component("ratelimiter"),
					slog.Int("count", n))
			}
		}
	}
}

// Stop ends a running Start and waits for it to return.
func (ms *MemoryStore) Stop() error {
	ms.mu.Lock()
	cancel, done := ms.cancel, ms.done
	ms.cancel, ms.done = nil, nil
	ms.mu.Unlock()

	if cancel == nil {
		return ErrNotStarted
	}
	cancel()
	<-done
	return nil
}

// Run adapts Start/Stop to the errgroup pattern: the returned function blocks
// until ctx is cancelled and reports a nil error on normal shutdown.
func (ms *MemoryStore) Run(ctx context.Context) func() error {
	return func() error {
		err := ms.Start(ctx)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	}
}

func (ms *MemoryStore) removeStale() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	removed := 0
	for key, b := range ms.buckets {
		if now.Sub(b.lastAccess) > staleAfter {
			delete(ms.buckets, key)
			removed++
		}
	}
	return removed
}
