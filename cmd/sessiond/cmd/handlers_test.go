package cmd

import (
	"context"
	"errors"
	"maps"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/sessionguard/core/auth"
	"github.com/dmitrymomot/sessionguard/core/codec"
	"github.com/dmitrymomot/sessionguard/core/logger"
	"github.com/dmitrymomot/sessionguard/core/query"
	"github.com/dmitrymomot/sessionguard/core/session"
	"github.com/dmitrymomot/sessionguard/pkg/ratelimiter"
)

const testPassword = "s3cret-passw0rd"

type memUsers struct {
	rows []query.Row
}

func (m *memUsers) SelectOne(_ context.Context, _ string, cond query.Condition) (query.Row, error) {
	for _, row := range m.rows {
		match := true
		for k, v := range cond.Where {
			if row[k] != v {
				match = false
				break
			}
		}
		if match {
			return maps.Clone(row), nil
		}
	}
	return nil, query.ErrNotFound
}

func newTestRoutes(t *testing.T, opts ...auth.Option) routes {
	t.Helper()

	c, err := codec.New("0123456789abcdef0123456789abcdef",
		codec.WithKDFParams(codec.KDFParams{Time: 1, MemoryKiB: 64, Threads: 1}))
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	sessions := session.New(c)
	users := &memUsers{rows: []query.Row{
		{"id": int64(7), "email": "alice@example.com", "password": string(hash), "active": true},
	}}

	return routes{
		auth:     auth.New(users, sessions, opts...),
		sessions: sessions,
		logger:   logger.Discard(),
	}
}

func request(method, target, body, contentType string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	r.Header.Set("X-Forwarded-For", "203.0.113.9")
	r.Header.Set("User-Agent", "sessiond-test")
	return r
}

func form(email, password string) string {
	return url.Values{"email": {email}, "password": {password}}.Encode()
}

func TestHealthRoutes(t *testing.T) {
	t.Parallel()

	rt := newTestRoutes(t)
	h := rt.handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, request(http.MethodGet, "/health/live", "", ""))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ALIVE", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	rt.checks = []func(context.Context) error{func(context.Context) error { return errors.New("db down") }}
	w = httptest.NewRecorder()
	rt.handler().ServeHTTP(w, request(http.MethodGet, "/health/ready", "", ""))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "db down")
}

func TestSignInFlow(t *testing.T) {
	t.Parallel()

	h := newTestRoutes(t).handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, request(http.MethodPost, "/signin",
		`{"email":"alice@example.com","password":"`+testPassword+`"}`, "application/json"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7,"email":"alice@example.com","active":true}`, w.Body.String())
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	me := request(http.MethodGet, "/me", "", "")
	me.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	h.ServeHTTP(w, me)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7,"email":"alice@example.com","active":true}`, w.Body.String())

	t.Run("cookie replayed from another address", func(t *testing.T) {
		r := request(http.MethodGet, "/me", "", "")
		r.Header.Set("X-Forwarded-For", "198.51.100.1")
		r.AddCookie(cookies[0])
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("sign out clears the cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, request(http.MethodPost, "/signout", "", ""))
		assert.Equal(t, http.StatusNoContent, w.Code)

		cleared := w.Result().Cookies()
		require.Len(t, cleared, 1)
		assert.Equal(t, "session", cleared[0].Name)
		assert.Empty(t, cleared[0].Value)
		assert.Negative(t, cleared[0].MaxAge)
	})
}

func TestSignIn_Form(t *testing.T) {
	t.Parallel()

	h := newTestRoutes(t).handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, request(http.MethodPost, "/signin",
		form("alice@example.com", testPassword), "application/x-www-form-urlencoded"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestSignIn_Rejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		contentType string
		want        int
	}{
		{"wrong password", form("alice@example.com", "nope"), "application/x-www-form-urlencoded", http.StatusUnauthorized},
		{"unknown user", form("eve@example.com", testPassword), "application/x-www-form-urlencoded", http.StatusUnauthorized},
		{"unknown field", `{"role":"admin","password":"x"}`, "application/json", http.StatusUnauthorized},
		{"malformed json", `{"email":`, "application/json", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := httptest.NewRecorder()
			newTestRoutes(t).handler().ServeHTTP(w, request(http.MethodPost, "/signin", tt.body, tt.contentType))
			assert.Equal(t, tt.want, w.Code)
			assert.Empty(t, w.Result().Cookies())
		})
	}
}

func TestSignIn_TooManyAttempts(t *testing.T) {
	t.Parallel()

	limiter, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.Config{
		Capacity:       1,
		RefillRate:     1,
		RefillInterval: time.Hour,
	})
	require.NoError(t, err)
	h := newTestRoutes(t, auth.WithLimiter(limiter)).handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, request(http.MethodPost, "/signin", form("alice@example.com", "nope"), "application/x-www-form-urlencoded"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, request(http.MethodPost, "/signin", form("alice@example.com", testPassword), "application/x-www-form-urlencoded"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestMe_Unauthenticated(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	newTestRoutes(t).handler().ServeHTTP(w, request(http.MethodGet, "/me", "", ""))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
