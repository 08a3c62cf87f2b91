// Package redis connects the go-redis client used by the distributed sign-in
// rate limiter.
//
// Redis is optional: when REDIS_URL is empty (Config.Enabled reports false)
// the server falls back to the in-memory limiter.
//
//	var cfg redis.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	if cfg.Enabled() {
//		client, err := redis.Connect(ctx, cfg)
//		if err != nil {
//			return err
//		}
//		defer client.Close()
//	}
//
// Connect validates the URL (redis:// or rediss:// for TLS), then pings with
// REDIS_RETRY_ATTEMPTS attempts spaced by REDIS_RETRY_INTERVAL, all within
// REDIS_CONNECT_TIMEOUT. Healthcheck returns a probe for readiness endpoints.
//
// Errors are sentinels for errors.Is: ErrEmptyConnectionURL,
// ErrFailedToParseRedisConnString, ErrRedisNotReady and ErrHealthcheckFailed.
package redis
