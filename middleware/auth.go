package middleware

import (
	"net/http"

	"github.com/dmitrymomot/sessionguard/core/session"
)

// Authenticator resolves the signed-in user of a request.
// *session.Authority implements it.
type Authenticator interface {
	Authenticate(r *http.Request) (session.User, bool)
}

// RequireAuthConfig configures the RequireAuth middleware.
type RequireAuthConfig struct {
	// Skip defines a function to skip authentication for specific requests
	Skip func(r *http.Request) bool
	// Unauthorized handles rejected requests (default: plain 401)
	Unauthorized http.Handler
}

// RequireAuth rejects requests without a valid session with 401 and stores
// the user in the request context otherwise (see session.UserFromContext).
func RequireAuth(a Authenticator) func(http.Handler) http.Handler {
	return RequireAuthWithConfig(a, RequireAuthConfig{})
}

// RequireAuthWithConfig is RequireAuth with custom configuration.
// The rejection reason is never exposed to the client.
func RequireAuthWithConfig(a Authenticator, cfg RequireAuthConfig) func(http.Handler) http.Handler {
	if cfg.Unauthorized == nil {
		cfg.Unauthorized = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		})
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			user, ok := a.Authenticate(r)
			if !ok {
				cfg.Unauthorized.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(session.WithUser(r.Context(), user)))
		})
	}
}
