// Package middleware provides the HTTP middleware stack for the rephrase API.
package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// Options configures the middleware stack.
type Options struct {
	Logger         *slog.Logger
	RateLimiter    *RateLimiter // nil disables rate limiting
	MaxBodyBytes   int64
	RequestTimeout time.Duration
}

// Chain wraps the handler with the full middleware stack.
// Order: CORS → RequestID → Logging → Metrics → RateLimit → MaxBytes → Timeout → mux
func Chain(handler http.Handler, opts Options) http.Handler {
	h := handler
	if opts.RequestTimeout > 0 {
		h = http.TimeoutHandler(h, opts.RequestTimeout, `{"error":"request timeout"}`)
	}
	if opts.MaxBodyBytes > 0 {
		h = MaxBytes(opts.MaxBodyBytes)(h)
	}
	if opts.RateLimiter != nil {
		h = RateLimit(opts.RateLimiter)(h)
	}
	h = Metrics(h)
	h = Logging(opts.Logger)(h)
	h = RequestID(h)
	h = CORS(h)
	return h
}

// CORS adds permissive CORS headers so browser extensions can call the API.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// MaxBytes limits the request body to the specified number of bytes.
func MaxBytes(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
