package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/sessionguard/core/logger"
	"github.com/dmitrymomot/sessionguard/pkg/clientip"
)

// LoggingConfig configures the request logging middleware.
type LoggingConfig struct {
	// Skip excludes requests from logging, e.g. health probes
	Skip func(r *http.Request) bool
	// Logger is the slog logger to use (default: slog.Default())
	Logger *slog.Logger
	// LogLevel for completed requests (default: slog.LevelInfo)
	LogLevel slog.Level
	// SlowRequestThreshold logs slower requests at warning level (default: 5s)
	SlowRequestThreshold time.Duration
}

// Logging logs one line per request at info level.
func Logging(log *slog.Logger) func(http.Handler) http.Handler {
	return LoggingWithConfig(LoggingConfig{Logger: log})
}

// LoggingWithConfig logs method, path, status, latency, client IP and request
// ID of every request. Headers, cookies and bodies are never logged.
// Responses with status 5xx are logged at error level.
func LoggingWithConfig(cfg LoggingConfig) func(http.Handler) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.LogLevel == 0 {
		cfg.LogLevel = slog.LevelInfo
	}
	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 5 * time.Second
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)
			latency := time.Since(start)

			requestID, _ := GetRequestID(r.Context())
			attrs := []slog.Attr{
				logger.Component("http"),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.StatusCode(rw.status),
				logger.Latency(latency),
				logger.ClientIP(clientip.GetIP(r)),
				logger.RequestID(requestID),
			}

			level := cfg.LogLevel
			msg := "request completed"
			switch {
			case rw.status >= http.StatusInternalServerError:
				level = slog.LevelError
				msg = "request failed"
			case latency > cfg.SlowRequestThreshold:
				level = slog.LevelWarn
				msg = "slow request"
			}

			cfg.Logger.LogAttrs(r.Context(), level, msg, attrs...)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
