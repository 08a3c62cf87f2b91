// Package health provides liveness and readiness HTTP handlers.
//
// Liveness always answers 200 "ALIVE". Readiness runs the given dependency
// checks (for example pg.Healthcheck and redis.Healthcheck) in order and
// answers 503 on the first failure, logging the cause.
package health
