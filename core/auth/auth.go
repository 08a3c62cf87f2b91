package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/netip"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrymomot/sessionguard/core/logger"
	"github.com/dmitrymomot/sessionguard/core/query"
	"github.com/dmitrymomot/sessionguard/core/session"
	"github.com/dmitrymomot/sessionguard/pkg/clientip"
	"github.com/dmitrymomot/sessionguard/pkg/ratelimiter"
)

// UserFinder looks up a single user row. *query.Store implements it.
type UserFinder interface {
	SelectOne(ctx context.Context, table string, cond query.Condition) (query.Row, error)
}

// Authenticator verifies credentials against the users table and manages the
// resulting session.
type Authenticator struct {
	users    UserFinder
	sessions *session.Authority

	table          string
	passwordColumn string
	activeColumn   string
	limiter        ratelimiter.RateLimiter
	trustedProxies []netip.Prefix
	checkPassword  func(password, hash string) bool
	logger         *slog.Logger
}

// New creates an Authenticator. Defaults: table "users", bcrypt hashes in
// "password", account flag in "active", no rate limiting.
func New(users UserFinder, sessions *session.Authority, opts ...Option) *Authenticator {
	a := &Authenticator{
		users:          users,
		sessions:       sessions,
		table:          "users",
		passwordColumn: "password",
		activeColumn:   "active",
		checkPassword:  CheckPassword,
		logger:         logger.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewFromConfig creates an Authenticator from configuration.
func NewFromConfig(cfg Config, users UserFinder, sessions *session.Authority, opts ...Option) *Authenticator {
	configOpts := []Option{
		WithUsersTable(cfg.UsersTable),
		WithPasswordColumn(cfg.PasswordColumn),
		WithActiveColumn(cfg.ActiveColumn),
		WithTrustedProxies(cfg.TrustedProxies...),
	}
	return New(users, sessions, append(configOpts, opts...)...)
}

// SignIn looks up the user matching credentials, verifies the password and
// active flag, and issues a session bound to the request's fingerprint. The
// password column never reaches the session.
//
// Attempts are throttled per connecting address (see WithTrustedProxies), not
// per fingerprint IP, since forwarding headers are client-controlled. A miss
// costs the same bcrypt comparison as a wrong password.
//
// Errors: ErrTooManyAttempts, ErrInvalidCredentials, ErrStoreUnavailable.
// Handlers should present the last two identically.
func (a *Authenticator) SignIn(w http.ResponseWriter, r *http.Request, credentials query.Row) (session.User, error) {
	ctx := r.Context()
	ip := clientip.ResolveTrusted(r, a.trustedProxies)
	log := a.logger.With(logger.Component("auth"), logger.ClientIP(ip))

	if err := a.throttle(ctx, ip, log); err != nil {
		return nil, err
	}

	row, err := a.lookup(ctx, credentials)
	if err != nil {
		if errors.Is(err, ErrStoreUnavailable) {
			log.ErrorContext(ctx, "sign-in lookup failed", logger.Error(err))
		} else {
			log.InfoContext(ctx, "sign-in rejected", logger.Reason(err.Error()))
		}
		return nil, err
	}

	if a.passwordColumn != "" {
		delete(row, a.passwordColumn)
	}
	user, err := session.NormalizeUser(row)
	if err != nil {
		log.ErrorContext(ctx, "user row cannot be stored in a session", logger.Error(err))
		return nil, fmt.Errorf("normalize user: %w", err)
	}

	if err := a.sessions.Issue(w, session.NewRecord(user, a.sessions.Fingerprint(r))); err != nil {
		log.ErrorContext(ctx, "issue session", logger.Error(err))
		return nil, fmt.Errorf("issue session: %w", err)
	}

	if a.limiter != nil {
		if err := a.limiter.Reset(ctx, signInKey(ip)); err != nil {
			log.WarnContext(ctx, "reset sign-in limit", logger.Error(err))
		}
	}

	id, _ := user.ID()
	log.InfoContext(ctx, "signed in", logger.UserID(id))
	return user, nil
}

// SignOut clears the session cookie.
func (a *Authenticator) SignOut(w http.ResponseWriter) {
	a.sessions.Clear(w)
}

// Check returns the signed-in user of r.
func (a *Authenticator) Check(r *http.Request) (session.User, bool) {
	return a.sessions.Authenticate(r)
}

// CheckClient authenticates credentials captured by session.Authority.ClientAuth.
func (a *Authenticator) CheckClient(c session.ClientAuth) (session.User, bool) {
	return a.sessions.AuthenticateClient(c)
}

func (a *Authenticator) throttle(ctx context.Context, ip string, log *slog.Logger) error {
	if a.limiter == nil {
		return nil
	}
	res, err := a.limiter.Allow(ctx, signInKey(ip))
	if err != nil {
		// Limiter outages must not lock everybody out.
		log.WarnContext(ctx, "sign-in rate limiter unavailable", logger.Error(err))
		return nil
	}
	if !res.Allowed() {
		log.WarnContext(ctx, "sign-in throttled", slog.Duration("retry_after", res.RetryAfter()))
		return fmt.Errorf("%w: retry after %s", ErrTooManyAttempts, res.RetryAfter())
	}
	return nil
}

func (a *Authenticator) lookup(ctx context.Context, credentials query.Row) (query.Row, error) {
	if len(credentials) == 0 {
		return nil, ErrInvalidCredentials
	}

	where := maps.Clone(credentials)
	var password string
	if a.passwordColumn != "" {
		p, ok := where[a.passwordColumn].(string)
		if !ok || p == "" {
			return nil, ErrInvalidCredentials
		}
		password = p
		delete(where, a.passwordColumn)
		if len(where) == 0 {
			return nil, ErrInvalidCredentials
		}
	}

	row, err := a.users.SelectOne(ctx, a.table, query.Condition{Where: where})
	switch {
	case errors.Is(err, query.ErrNotFound),
		errors.Is(err, query.ErrUnknownColumn),
		errors.Is(err, query.ErrUnsupportedValue):
		if a.passwordColumn != "" {
			a.checkPassword(password, dummyHash())
		}
		return nil, ErrInvalidCredentials
	case err != nil:
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	if a.passwordColumn != "" && !a.checkPassword(password, hashOf(row[a.passwordColumn])) {
		return nil, ErrInvalidCredentials
	}
	if a.activeColumn != "" && !truthy(row[a.activeColumn]) {
		return nil, ErrInvalidCredentials
	}
	return row, nil
}

func signInKey(ip string) string {
	return "signin:" + ip
}

func hashOf(v any) string {
	switch h := v.(type) {
	case string:
		return h
	case []byte:
		return string(h)
	default:
		return ""
	}
}

// truthy interprets the active column: booleans, non-zero numbers, and
// strings spelling true or a non-zero integer.
func truthy(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case int:
		return val != 0
	case int8:
		return val != 0
	case int16:
		return val != 0
	case int32:
		return val != 0
	case int64:
		return val != 0
	case uint8:
		return val != 0
	case float64:
		return val != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "t", "yes", "y":
			return true
		}
		n, err := strconv.ParseInt(val, 10, 64)
		return err == nil && n != 0
	default:
		return false
	}
}
