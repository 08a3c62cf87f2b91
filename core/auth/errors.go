package auth

import "errors"

var (
	// ErrInvalidCredentials covers an unknown user, a wrong password and an
	// inactive account alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrStoreUnavailable means the user store failed; the credentials were
	// never checked.
	ErrStoreUnavailable = errors.New("user store unavailable")
	// ErrTooManyAttempts is returned when the client exceeded its sign-in budget.
	ErrTooManyAttempts = errors.New("too many sign-in attempts")
)
