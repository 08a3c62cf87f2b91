package session

import "errors"

// Reasons an authentication attempt failed. Callers of Current and
// Authenticate only ever observe "no session"; these values exist for
// logging and for Verify.
var (
	// ErrNoSession is returned when the request carries no session cookie.
	ErrNoSession = errors.New("no session")
	// ErrDecodeFailure is returned when the token is malformed, forged or
	// encrypted under a different secret.
	ErrDecodeFailure = errors.New("session token could not be decoded")
	// ErrEmptyUser is returned when a decoded session carries no user record.
	ErrEmptyUser = errors.New("session has no user")
	// ErrFingerprintMismatch is returned when the session's ip or agent
	// differs from the current request.
	ErrFingerprintMismatch = errors.New("session fingerprint mismatch")
	// ErrUnsupportedValue is returned by NormalizeUser for non-scalar fields.
	ErrUnsupportedValue = errors.New("unsupported user field value")
)
