package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/sessionguard/core/auth"
	"github.com/dmitrymomot/sessionguard/core/health"
	"github.com/dmitrymomot/sessionguard/core/logger"
	"github.com/dmitrymomot/sessionguard/core/query"
	"github.com/dmitrymomot/sessionguard/core/session"
	"github.com/dmitrymomot/sessionguard/middleware"
)

const maxCredentialsBytes = 64 << 10

// routes holds what the HTTP surface depends on.
type routes struct {
	auth     *auth.Authenticator
	sessions *session.Authority
	logger   *slog.Logger
	checks   []func(context.Context) error
}

func (rt routes) handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(rt.logger))

	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness(rt.logger, rt.checks...))

	r.Post("/signin", rt.signIn)
	r.Post("/signout", rt.signOut)

	r.With(middleware.RequireAuth(rt.sessions)).Get("/me", rt.me)

	return r
}

func (rt routes) signIn(w http.ResponseWriter, r *http.Request) {
	credentials, err := readCredentials(w, r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	user, err := rt.auth.SignIn(w, r, credentials)
	switch {
	case errors.Is(err, auth.ErrTooManyAttempts):
		http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
	case err != nil:
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
	default:
		writeJSON(w, rt.logger, http.StatusOK, user)
	}
}

func (rt routes) signOut(w http.ResponseWriter, _ *http.Request) {
	rt.auth.SignOut(w)
	w.WriteHeader(http.StatusNoContent)
}

func (rt routes) me(w http.ResponseWriter, r *http.Request) {
	user, _ := session.UserFromContext(r.Context())
	writeJSON(w, rt.logger, http.StatusOK, user)
}

// readCredentials accepts a JSON object or a urlencoded form.
// Form fields keep their first value.
func readCredentials(w http.ResponseWriter, r *http.Request) (query.Row, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCredentialsBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var row query.Row
		if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
			return nil, err
		}
		return row, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	row := make(query.Row, len(r.PostForm))
	for k, vs := range r.PostForm {
		if len(vs) > 0 {
			row[k] = vs[0]
		}
	}
	return row, nil
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response", logger.Error(err))
	}
}
