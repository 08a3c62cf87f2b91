package cookie

import (
	"errors"
	"net/http"
	"net/url"
	"time"
)

// MaxCookieSize is the maximum size for a cookie (4KB).
const MaxCookieSize = 4096

// Manager writes, reads and deletes HTTP cookies with shared default attributes.
//
// Values are percent-encoded on the wire, so any string (JSON included) can be
// stored without being mangled by net/http's cookie sanitizer. A Manager is
// immutable after construction and safe for concurrent use.
type Manager struct {
	defaults Options
	maxSize  int
}

// ManagerOption configures the Manager itself (not individual cookies).
type ManagerOption func(*Manager)

// WithMaxSize sets the maximum serialized Set-Cookie size.
func WithMaxSize(size int) ManagerOption {
	return func(m *Manager) {
		if size > 0 {
			m.maxSize = size
		}
	}
}

// New creates a cookie manager. Defaults: Path "/", HttpOnly, SameSite=Lax.
func New(opts ...Option) *Manager {
	return NewWithOptions(opts)
}

// NewWithOptions creates a cookie manager with additional manager options.
func NewWithOptions(cookieOpts []Option, managerOpts ...ManagerOption) *Manager {
	defaults := Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	m := &Manager{
		defaults: applyOptions(defaults, cookieOpts),
		maxSize:  MaxCookieSize,
	}
	for _, opt := range managerOpts {
		opt(m)
	}
	return m
}

// Defaults returns the attributes applied to every cookie.
func (m *Manager) Defaults() Options {
	return m.defaults
}

// Set stores a cookie value.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) error {
	options := applyOptions(m.defaults, opts)

	cookie := &http.Cookie{
		Name:     name,
		Value:    url.QueryEscape(value),
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   options.MaxAge,
		Secure:   options.Secure,
		HttpOnly: options.HttpOnly,
		SameSite: options.SameSite,
	}

	header := cookie.String()
	if len(header) > m.maxSize {
		return ErrCookieTooLarge{
			Name: name,
			Size: len(header),
			Max:  m.maxSize,
		}
	}

	http.SetCookie(w, cookie)
	return nil
}

// Get retrieves and unescapes a cookie value.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	cookie, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}

	value, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return "", ErrInvalidFormat
	}
	return value, nil
}

// Delete expires a cookie. Path and Domain must match the ones used by Set,
// so the same options should be passed. Deleting an absent cookie is harmless.
func (m *Manager) Delete(w http.ResponseWriter, name string, opts ...Option) {
	options := applyOptions(m.defaults, opts)

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: options.HttpOnly,
		SameSite: options.SameSite,
		Secure:   options.Secure,
	})
}
