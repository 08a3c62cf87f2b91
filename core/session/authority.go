package session

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/sessionguard/core/codec"
	"github.com/dmitrymomot/sessionguard/core/cookie"
	"github.com/dmitrymomot/sessionguard/core/logger"
	"github.com/dmitrymomot/sessionguard/pkg/fingerprint"
)

// Authority owns the session cookie and the authentication predicate.
// It is safe for concurrent use.
type Authority struct {
	codec   *codec.Codec
	cookies *cookie.Manager
	name    string
	ttl     time.Duration
	secure  bool
	enforce bool
	logger  *slog.Logger
}

// ClientAuth bundles what a client must present to authenticate over a
// channel without cookies or request headers.
type ClientAuth struct {
	Token string `json:"token"`
	IP    string `json:"ip"`
	Agent string `json:"agent"`
}

// Fingerprint returns the client attributes carried by the bundle.
func (c ClientAuth) Fingerprint() fingerprint.Fingerprint {
	return fingerprint.Fingerprint{IP: c.IP, UserAgent: c.Agent}
}

// New creates an Authority issuing tokens through c. Defaults: cookie
// "session", 24h lifetime, Secure off, fingerprint enforcement on.
func New(c *codec.Codec, opts ...Option) *Authority {
	a := &Authority{
		codec:   c,
		cookies: cookie.New(),
		name:    DefaultCookieName,
		ttl:     DefaultTTL,
		enforce: true,
		logger:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewFromConfig creates an Authority from configuration. Options passed by
// the caller are applied after the configured ones.
func NewFromConfig(cfg Config, c *codec.Codec, opts ...Option) *Authority {
	configOpts := []Option{
		WithCookieName(cfg.CookieName),
		WithTTL(cfg.TTL),
		WithSecure(cfg.IsProduction()),
		WithFingerprintEnforcement(cfg.EnforceFingerprint),
	}
	return New(c, append(configOpts, opts...)...)
}

// CookieName returns the name of the session cookie.
func (a *Authority) CookieName() string {
	return a.name
}

// Issue normalizes rec.User (see NormalizeUser), encodes rec and stores it in
// the session cookie. The caller's map is not modified.
func (a *Authority) Issue(w http.ResponseWriter, rec Record) error {
	user, err := NormalizeUser(rec.User)
	if err != nil {
		return err
	}
	if len(user) == 0 {
		return ErrEmptyUser
	}
	rec.User = user

	token, err := a.codec.Encode(rec)
	if err != nil {
		return err
	}

	return a.cookies.Set(w, a.name, token,
		cookie.WithPath("/"),
		cookie.WithHTTPOnly(true),
		cookie.WithSecure(a.secure),
		cookie.WithMaxAge(int(a.ttl/time.Second)),
	)
}

// Current returns the session carried by the request cookie.
// A missing cookie and an undecodable token look the same.
func (a *Authority) Current(r *http.Request) (Record, bool) {
	rec, err := a.current(r)
	if err != nil {
		a.reject(r, err)
		return Record{}, false
	}
	return rec, true
}

// FromToken decodes a token that arrived out-of-band.
func (a *Authority) FromToken(token string) (Record, bool) {
	rec, err := a.decode(token)
	if err != nil {
		a.reject(nil, err)
		return Record{}, false
	}
	return rec, true
}

// Clear expires the session cookie. Clearing an absent session is a no-op
// apart from the Set-Cookie header.
func (a *Authority) Clear(w http.ResponseWriter) {
	a.cookies.Delete(w, a.name,
		cookie.WithPath("/"),
		cookie.WithHTTPOnly(true),
		cookie.WithSecure(a.secure),
	)
}

// Authenticate returns the session user when the request carries a valid
// session bound to the request's fingerprint.
func (a *Authority) Authenticate(r *http.Request) (User, bool) {
	user, err := a.Verify(r)
	if err != nil {
		a.reject(r, err)
		return nil, false
	}
	return user, true
}

// AuthenticateToken is Authenticate for tokens and fingerprints that arrived
// out-of-band.
func (a *Authority) AuthenticateToken(token string, fp fingerprint.Fingerprint) (User, bool) {
	user, err := a.VerifyToken(token, fp)
	if err != nil {
		a.reject(nil, err)
		return nil, false
	}
	return user, true
}

// AuthenticateClient authenticates a ClientAuth bundle.
func (a *Authority) AuthenticateClient(c ClientAuth) (User, bool) {
	return a.AuthenticateToken(c.Token, c.Fingerprint())
}

// Verify is Authenticate with the rejection reason. Handlers must not expose
// the reason to clients.
func (a *Authority) Verify(r *http.Request) (User, error) {
	rec, err := a.current(r)
	if err != nil {
		return nil, err
	}
	return a.check(rec, fingerprint.FromRequest(r))
}

// VerifyToken is AuthenticateToken with the rejection reason.
func (a *Authority) VerifyToken(token string, fp fingerprint.Fingerprint) (User, error) {
	rec, err := a.decode(token)
	if err != nil {
		return nil, err
	}
	return a.check(rec, fp)
}

// ClientAuth captures the request's token and fingerprint so they can be
// handed to another channel. Token is empty when no cookie is present.
func (a *Authority) ClientAuth(r *http.Request) ClientAuth {
	fp := fingerprint.FromRequest(r)
	token, _ := a.cookies.Get(r, a.name)
	return ClientAuth{
		Token: token,
		IP:    fp.IP,
		Agent: fp.UserAgent,
	}
}

// Fingerprint returns the fingerprint a session issued for r would carry.
func (a *Authority) Fingerprint(r *http.Request) fingerprint.Fingerprint {
	return fingerprint.FromRequest(r)
}

func (a *Authority) current(r *http.Request) (Record, error) {
	token, err := a.cookies.Get(r, a.name)
	switch {
	case errors.Is(err, cookie.ErrCookieNotFound):
		return Record{}, ErrNoSession
	case err != nil:
		return Record{}, ErrDecodeFailure
	}
	return a.decode(token)
}

func (a *Authority) decode(token string) (Record, error) {
	if token == "" {
		return Record{}, ErrNoSession
	}
	var rec Record
	if err := a.codec.Decode(token, &rec); err != nil {
		return Record{}, ErrDecodeFailure
	}
	return rec, nil
}

func (a *Authority) check(rec Record, fp fingerprint.Fingerprint) (User, error) {
	if len(rec.User) == 0 {
		return nil, ErrEmptyUser
	}
	if a.enforce && !rec.Fingerprint().Equal(fp) {
		return nil, ErrFingerprintMismatch
	}
	return rec.User, nil
}

// reject logs why a session was not accepted. The token itself is never logged.
func (a *Authority) reject(r *http.Request, err error) {
	if errors.Is(err, ErrNoSession) {
		return
	}
	attrs := []any{logger.Component("session"), logger.Reason(err.Error())}
	if r != nil {
		attrs = append(attrs,
			logger.Path(r.URL.Path),
			slog.String("fingerprint", fingerprint.FromRequest(r).Hash()),
		)
	}
	a.logger.Debug("session rejected", attrs...)
}
