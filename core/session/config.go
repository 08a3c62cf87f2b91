package session

import (
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/sessionguard/core/cookie"
)

const (
	// DefaultCookieName is the cookie carrying the session token.
	DefaultCookieName = "session"
	// DefaultTTL is the fixed session lifetime. There is no sliding renewal.
	DefaultTTL = 24 * time.Hour
)

// Config provides environment-based configuration for the Authority.
type Config struct {
	Env                string        `env:"APP_ENV" envDefault:"development"`
	CookieName         string        `env:"SESSION_COOKIE_NAME" envDefault:"session"`
	TTL                time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	EnforceFingerprint bool          `env:"SESSION_ENFORCE_FINGERPRINT" envDefault:"true"`
}

// IsProduction reports whether cookies must carry the Secure attribute.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Option configures an Authority.
type Option func(*Authority)

// WithCookieManager replaces the cookie manager used to read and write tokens.
func WithCookieManager(m *cookie.Manager) Option {
	return func(a *Authority) {
		if m != nil {
			a.cookies = m
		}
	}
}

// WithCookieName sets the session cookie name.
func WithCookieName(name string) Option {
	return func(a *Authority) {
		if name != "" {
			a.name = name
		}
	}
}

// WithTTL sets the cookie Max-Age. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(a *Authority) {
		if ttl > 0 {
			a.ttl = ttl
		}
	}
}

// WithSecure sets the Secure attribute on issued cookies.
func WithSecure(secure bool) Option {
	return func(a *Authority) {
		a.secure = secure
	}
}

// WithFingerprintEnforcement toggles the ip/agent comparison.
// Disabling it accepts any decodable session with a user, regardless of
// which client presents it.
func WithFingerprintEnforcement(enforce bool) Option {
	return func(a *Authority) {
		a.enforce = enforce
	}
}

// WithLogger sets the logger used for rejected authentication attempts.
func WithLogger(l *slog.Logger) Option {
	return func(a *Authority) {
		if l != nil {
			a.logger = l
		}
	}
}
