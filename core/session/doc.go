// Package session binds an encrypted, self-contained session to an HTTP
// cookie and decides whether a request is authenticated.
//
// A session is a Record: the user row, plus the client IP and user agent
// observed at sign-in. The Authority encodes the record with a codec.Codec and
// stores the token in the "session" cookie (HttpOnly, Path=/, Max-Age=86400,
// Secure in production). Nothing is kept server side; every authenticated
// request decrypts the cookie again.
//
// # Usage
//
//	c, err := codec.NewFromConfig(codecCfg)
//	if err != nil {
//		return err
//	}
//	sessions := session.NewFromConfig(sessionCfg, c, session.WithLogger(log))
//
//	// sign-in handler, after the credentials were verified
//	rec := session.NewRecord(user, sessions.Fingerprint(r))
//	if err := sessions.Issue(w, rec); err != nil {
//		return err
//	}
//
//	// protected handler
//	user, ok := sessions.Authenticate(r)
//	if !ok {
//		http.Error(w, "Unauthorized", http.StatusUnauthorized)
//		return
//	}
//
// # Authentication Outcomes
//
// Authenticate succeeds only when the cookie decodes, the record carries a
// non-empty user and, with fingerprint enforcement on (the default), the
// recorded ip and agent equal those of the current request. Every other
// outcome returns (nil, false). Verify exposes the reason (ErrNoSession,
// ErrDecodeFailure, ErrEmptyUser, ErrFingerprintMismatch) for logging only.
//
// # Out-of-band Tokens
//
// Channels without cookies (for example a websocket upgrade forwarded by a
// worker) can carry a ClientAuth bundle obtained from Authority.ClientAuth and
// check it with AuthenticateClient or AuthenticateToken.
//
// # Value Normalization
//
// User values should pass through NormalizeUser before issuance. Decoding
// yields int64 for integral numbers and float64 otherwise, so a normalized
// record decodes to exactly what was issued.
package session
