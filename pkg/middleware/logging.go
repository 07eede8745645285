package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// Logger creates middleware that logs each request at Debug, and at Warn
// for server errors.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			level := slog.LevelDebug
			if rec.code() >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			logger.Log(r.Context(), level, "http request",
				"method", r.Method,
				"route", routePattern(r),
				"status", rec.code(),
				"bytes", rec.bytes,
				"duration", time.Since(start),
			)
		})
	}
}
