// Package cookie provides HTTP cookie management with secure defaults and a
// size limit.
//
// # Features
//
//   - Secure defaults (HttpOnly, SameSite=Lax, Path "/")
//   - Percent-encoded values, so JSON and other structured strings survive
//     net/http's cookie value sanitizer
//   - 4KB size limit enforcement
//   - Environment-based configuration
//
// Encryption is not this package's concern: values that need confidentiality
// are sealed by package codec before they reach the manager.
//
// # Basic Usage
//
//	manager := cookie.New(cookie.WithSecure(true))
//
//	err := manager.Set(w, "session", token, cookie.WithMaxAge(86400))
//	var tooLarge cookie.ErrCookieTooLarge
//	if errors.As(err, &tooLarge) {
//		// value does not fit in a cookie
//	}
//
//	value, err := manager.Get(r, "session")
//	if errors.Is(err, cookie.ErrCookieNotFound) {
//		// cookie doesn't exist
//	}
//
//	manager.Delete(w, "session")
//
// # Configuration
//
//	type Config struct {
//		Path     string        `env:"COOKIE_PATH" envDefault:"/"`
//		Domain   string        `env:"COOKIE_DOMAIN" envDefault:""`
//		SameSite http.SameSite `env:"COOKIE_SAME_SITE" envDefault:"2"`
//		MaxSize  int           `env:"COOKIE_MAX_SIZE" envDefault:"4096"`
//	}
//
//	manager := cookie.NewFromConfig(cfg)
package cookie
