// Package ratelimiter provides token bucket rate limiting with pluggable
// storage, used to throttle sign-in attempts per client IP.
//
// A bucket holds at most Capacity tokens and gains RefillRate tokens every
// RefillInterval. A request for n tokens succeeds only when n are available;
// a denied request consumes nothing.
//
//	store := ratelimiter.NewMemoryStore()
//	go store.Start(ctx) // background removal of idle buckets
//
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       5,
//		RefillRate:     1,
//		RefillInterval: time.Minute,
//	})
//	if err != nil {
//		return err
//	}
//
//	res, err := limiter.Allow(ctx, "signin:"+clientip.GetIP(r))
//	if err != nil {
//		return err
//	}
//	if !res.Allowed() {
//		w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter().Seconds())))
//		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
//		return
//	}
//
// # Stores
//
// MemoryStore keeps state in process and suits a single instance. RedisStore
// runs the refill-and-consume step as one Lua script, so several instances
// can share limits:
//
//	store := ratelimiter.NewRedisStore(client, ratelimiter.WithKeyPrefix("signin:"))
//
// Store failures surface as ErrStoreUnavailable; callers decide whether to
// fail open or closed.
package ratelimiter
