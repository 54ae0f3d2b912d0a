package main

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	metrics "github.com/slok/go-http-metrics/metrics/prometheus"
	"github.com/slok/go-http-metrics/middleware"
	middlewarestd "github.com/slok/go-http-metrics/middleware/std"
)

const requestIDHeader = "X-Request-ID"

// quietPaths are polled by infrastructure and left out of the request log.
var quietPaths = map[string]bool{"/ready": true, "/metrics": true}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// requestLog tags every request with an id, reusing the caller's when it sent one.
func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		if quietPaths[r.URL.Path] {
			return
		}
		level := slog.LevelInfo
		if rec.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.Log(r.Context(), level, "request", "request_id", id, "method", r.Method, "path", r.URL.Path,
			"query", r.URL.RawQuery, "status", rec.status, "duration", time.Since(start))
	})
}

func recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				slog.ErrorContext(r.Context(), "panic recovered", "path", r.URL.Path, "error", err, "stack", string(debug.Stack()))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Registered once; a second recorder would collide in the default prometheus registry.
var httpMetrics = middleware.New(middleware.Config{
	Recorder: metrics.NewRecorder(metrics.Config{}),
})

func instrument(next http.Handler) http.Handler {
	return middlewarestd.Handler("", httpMetrics, next)
}

// WithMiddleware wraps h so that logging sees the status written by the recoverer.
func WithMiddleware(h http.Handler) http.Handler {
	for _, mw := range []func(http.Handler) http.Handler{instrument, recoverPanics, requestLog} {
		h = mw(h)
	}
	return h
}
