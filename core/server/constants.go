package server

import "time"

const (
	// DefaultAddr is the listen address used when none is configured.
	DefaultAddr = ":8080"

	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultReadTimeout       = 15 * time.Second
	DefaultWriteTimeout      = 30 * time.Second
	DefaultIdleTimeout       = 60 * time.Second

	// DefaultShutdownTimeout bounds how long in-flight requests may run after Stop.
	DefaultShutdownTimeout = 10 * time.Second

	DefaultMaxHeaderBytes = 1 << 20
)
