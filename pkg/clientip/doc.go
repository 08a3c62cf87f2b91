// Package clientip extracts the client IP address a reverse proxy reports for
// an HTTP request.
//
// # Header Priority
//
//  1. X-Forwarded-For, leftmost entry ("client, proxy1, proxy2" yields "client")
//  2. X-Real-IP
//  3. the fixed sentinel "0.0.0.0"
//
// GetIP never consults RemoteAddr: sessions bind to the address the
// proxy saw, and a direct connection without proxy headers yields the
// sentinel consistently on every request.
//
// # Usage
//
//	ip := clientip.GetIP(r)
//	log.Info("sign-in attempt", logger.ClientIP(ip))
//
// For decisions an attacker must not influence, such as rate limiting, use
// RemoteIP or ResolveTrusted, which only honor forwarding headers set by
// configured proxies:
//
//	key := clientip.ResolveTrusted(r, []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")})
//
// The value returned by GetIP is not validated as an IP literal. Both headers are
// client-controllable unless the proxy overwrites them, so treat the result as
// a heuristic signal.
package clientip
