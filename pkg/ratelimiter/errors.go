package ratelimiter

import "errors"

var (
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrInvalidTokenCount = errors.New("invalid token count")
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrAlreadyStarted    = errors.New("memory store already started")
	ErrNotStarted        = errors.New("memory store not started")
)
