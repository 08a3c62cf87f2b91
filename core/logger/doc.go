// Package logger provides structured logging utilities built on Go's standard
// slog package: a small factory with environment presets and a set of
// attribute helpers shared by every component in this module.
//
// # Basic Usage
//
//	log := logger.New(logger.WithProduction("sessiond"))
//	log.Info("session issued",
//		logger.Component("session"),
//		logger.ClientIP(ip),
//	)
//
// Attribute helpers are nil-safe; logger.Error(nil) yields an empty attribute
// that slog drops.
//
// Session tokens and secrets must never be passed to a logger.
package logger
