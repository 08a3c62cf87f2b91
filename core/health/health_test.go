package health_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/sessionguard/core/health"
	"github.com/dmitrymomot/sessionguard/core/logger"
)

func TestLiveness(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	health.Liveness(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ALIVE", w.Body.String())
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	ok := func(context.Context) error { return nil }
	fail := func(context.Context) error { return errors.New("db down") }

	t.Run("all checks pass", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		health.Readiness(logger.Discard(), ok, ok)(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "READY", w.Body.String())
	})

	t.Run("no checks", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		health.Readiness(logger.Discard())(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("failing check", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		w := httptest.NewRecorder()
		health.Readiness(logger.New(logger.WithOutput(&buf)), ok, fail)(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.NotContains(t, w.Body.String(), "db down")
		assert.Contains(t, buf.String(), "db down")
	})
}
