package auth

import (
	"log/slog"
	"net/netip"

	"github.com/dmitrymomot/sessionguard/core/query"
	"github.com/dmitrymomot/sessionguard/pkg/ratelimiter"
)

// Config describes the users table.
type Config struct {
	UsersTable     string   `env:"AUTH_USERS_TABLE" envDefault:"users"`
	UserColumns    []string `env:"AUTH_USER_COLUMNS" envDefault:"id,email,password,active" envSeparator:","`
	PasswordColumn string   `env:"AUTH_PASSWORD_COLUMN" envDefault:"password"`
	ActiveColumn   string   `env:"AUTH_ACTIVE_COLUMN" envDefault:"active"`

	// TrustedProxies lists the CIDRs allowed to report the client address
	// through X-Forwarded-For for sign-in throttling.
	TrustedProxies []netip.Prefix `env:"AUTH_TRUSTED_PROXIES" envSeparator:","`
}

// Schema returns the query allow-list covering the users table.
func (c Config) Schema() query.Schema {
	return query.Schema{c.UsersTable: c.UserColumns}
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithUsersTable sets the table credentials are looked up in.
func WithUsersTable(table string) Option {
	return func(a *Authenticator) {
		if table != "" {
			a.table = table
		}
	}
}

// WithPasswordColumn sets the column holding bcrypt hashes. An empty name
// disables password verification and every credential is matched verbatim.
func WithPasswordColumn(column string) Option {
	return func(a *Authenticator) {
		a.passwordColumn = column
	}
}

// WithActiveColumn sets the column that must be truthy for sign-in to
// succeed. An empty name disables the check.
func WithActiveColumn(column string) Option {
	return func(a *Authenticator) {
		a.activeColumn = column
	}
}

// WithLimiter throttles sign-in attempts per client IP.
func WithLimiter(l ratelimiter.RateLimiter) Option {
	return func(a *Authenticator) {
		a.limiter = l
	}
}

// WithTrustedProxies names the reverse proxies whose X-Forwarded-For entries
// are believed when keying the sign-in limiter. Without any, the limiter keys
// on the connecting address.
func WithTrustedProxies(prefixes ...netip.Prefix) Option {
	return func(a *Authenticator) {
		a.trustedProxies = prefixes
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Authenticator) {
		if l != nil {
			a.logger = l
		}
	}
}
