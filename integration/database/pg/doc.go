// Package pg manages the PostgreSQL connection pool used for credential
// lookups.
//
// The pool is created once at process start with Connect and injected into
// the components that query it; nothing in this module keeps a package-level
// pool. Close it when the process stops.
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
// Connect retries with exponential backoff (RetryInterval, doubled per
// attempt, capped at 30s) and verifies each pool with a ping before returning
// it.
//
// # Configuration
//
//	PG_CONN_URL            required
//	PG_MAX_OPEN_CONNS      10
//	PG_MAX_IDLE_CONNS      5
//	PG_HEALTHCHECK_PERIOD  1m
//	PG_MAX_CONN_IDLE_TIME  10m
//	PG_MAX_CONN_LIFETIME   30m
//	PG_RETRY_ATTEMPTS      3
//	PG_RETRY_INTERVAL      5s
//
// # Transactions
//
// WithTx attaches a pgx.Tx to a context; Conn picks it over the pool so
// repositories join the caller's transaction transparently:
//
//	tx, err := pool.Begin(ctx)
//	if err != nil {
//		return err
//	}
//	defer tx.Rollback(ctx)
//
//	ctx = pg.WithTx(ctx, tx)
//	if _, err := store.Insert(ctx, "users", row); err != nil {
//		return err
//	}
//	return tx.Commit(ctx)
//
// # Errors
//
// IsNotFoundError, IsDuplicateKeyError, IsForeignKeyViolationError and
// IsTxClosedError classify driver errors. Healthcheck returns a probe for
// readiness endpoints.
package pg
