// Package middleware provides HTTP middleware for the web server.
package middleware

import (
	"net/http"
	"time"

	"github.com/JonMunkholm/jaarrekening/internal/logging"
)

// RequestRecorder counts finished requests. *metrics.Metrics satisfies it.
type RequestRecorder interface {
	HTTPRequest(method string, status int)
}

// Logger returns middleware that logs every request with its status and
// duration, and reports it to rec when rec is non-nil.
//
// Log fields:
//   - method, path, status
//   - duration_ms: request processing time
//   - bytes: response body size
//   - ip: client address after TrustedRealIP
//   - request_id: added by logging.FromContext
func Logger(rec RequestRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(ww, r)

			if rec != nil {
				rec.HTTPRequest(r.Method, ww.status)
			}

			logger := logging.FromContext(r.Context())
			level := logger.Info
			if ww.status >= http.StatusInternalServerError {
				level = logger.Warn
			}
			level("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.status,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes", ww.bytes,
				"ip", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.status = status
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
