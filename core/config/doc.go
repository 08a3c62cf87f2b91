// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// A .env file in the working directory is loaded (without overriding already
// set variables) on first use, then caarlos0/env parses variables into struct
// fields.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/sessionguard/core/config"
//
//	var cfg codec.Config
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err) // e.g. SESSION_SECRET is not set
//	}
//
//	// Or panic on failure (useful for startup)
//	config.MustLoad(&cfg)
//
// # Caching Behavior
//
// Each configuration type is loaded only once per process lifetime. Different
// types are cached independently, so every package can own its Config struct
// without coordinating with others.
package config
