// Package fingerprint binds sessions to the client that created them.
//
// A Fingerprint is the client IP (as reported by the fronting proxy, see
// package clientip) together with the raw User-Agent header. Both values are
// recorded when a session is issued and compared exactly on every
// authenticated request.
//
// # Usage
//
//	fp := fingerprint.FromRequest(r)
//	if err := fingerprint.Validate(r, stored); err != nil {
//		// errors.Is(err, fingerprint.ErrMismatch)
//	}
//
// Use Hash when a fingerprint needs to appear in logs; it never exposes the
// underlying address or agent string.
//
// # Limitations
//
// Mobile networks, VPNs and browser updates all change one of the two
// attributes and force a new sign-in. Both headers can be spoofed by a client
// unless the proxy overwrites them.
package fingerprint
