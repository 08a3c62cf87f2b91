package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionguard/core/codec"
	"github.com/dmitrymomot/sessionguard/core/session"
	"github.com/dmitrymomot/sessionguard/middleware"
	"github.com/dmitrymomot/sessionguard/pkg/fingerprint"
)

func newSessions(t *testing.T) *session.Authority {
	t.Helper()
	c, err := codec.New("0123456789abcdef0123456789abcdef",
		codec.WithKDFParams(codec.KDFParams{Time: 1, MemoryKiB: 64, Threads: 1}))
	require.NoError(t, err)
	return session.New(c)
}

func userEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := session.UserFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		_, _ = w.Write([]byte(user["email"].(string)))
	})
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	sessions := newSessions(t)
	issued := httptest.NewRecorder()
	rec := session.NewRecord(session.User{"id": int64(1), "email": "alice@example.com"},
		fingerprint.Fingerprint{IP: "1.2.3.4", UserAgent: "TestAgent"})
	require.NoError(t, sessions.Issue(issued, rec))

	request := func(ip string, withCookie bool) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/me", nil)
		r.Header.Set("X-Forwarded-For", ip)
		r.Header.Set("User-Agent", "TestAgent")
		if withCookie {
			for _, c := range issued.Result().Cookies() {
				r.AddCookie(c)
			}
		}
		return r
	}

	h := middleware.RequireAuth(sessions)(userEcho())

	t.Run("valid session", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, request("1.2.3.4", true))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "alice@example.com", w.Body.String())
	})

	t.Run("no session", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, request("1.2.3.4", false))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("fingerprint mismatch looks the same", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, request("9.9.9.9", true))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Unauthorized\n", w.Body.String())
	})

	t.Run("custom handler and skip", func(t *testing.T) {
		mw := middleware.RequireAuthWithConfig(sessions, middleware.RequireAuthConfig{
			Skip: func(r *http.Request) bool { return r.URL.Path == "/public" },
			Unauthorized: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
			}),
		})
		h := mw(userEcho())

		w := httptest.NewRecorder()
		h.ServeHTTP(w, request("1.2.3.4", false))
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))

		w = httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public", nil))
		assert.Equal(t, http.StatusTeapot, w.Code)
	})
}
