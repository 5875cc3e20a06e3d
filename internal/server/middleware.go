// HTTP middleware: request logging, request IDs, rate limiting.

package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/flatdb/flatdb/internal/server/dto"
	"github.com/flatdb/flatdb/internal/server/ratelimit"
	"github.com/flatdb/flatdb/internal/server/reqctx"
	"github.com/google/uuid"
)

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	if r.status == 0 {
		r.status = statusCode
	}
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// RequestLogger logs one line per request with a generated request ID.
// The ID and client IP are placed on the request context so downstream
// handlers log against the same identity. Health checks are logged at
// debug to keep probes out of normal logs.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		ip := reqctx.GetClientIP(r)
		w.Header().Set("X-Request-ID", reqID)
		ctx := reqctx.WithRequestID(r.Context(), reqID)
		ctx = reqctx.WithClientIP(ctx, ip)
		r = r.WithContext(ctx)
		rec := &statusRecorder{ResponseWriter: w}
		start := time.Now()
		next.ServeHTTP(rec, r)
		level := slog.LevelInfo
		if r.URL.Path == "/api/health" {
			level = slog.LevelDebug
		}
		slog.LogAttrs(ctx, level, "Request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
			slog.String("reqID", reqID),
			slog.String("ip", ip),
		)
	})
}

// RateLimit rejects requests over the per-IP budget with a 429 and
// stamps X-RateLimit headers on every response. A nil limiter disables
// limiting.
func RateLimit(limiter *ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := reqctx.ClientIP(r.Context())
			if ip == "" {
				ip = reqctx.GetClientIP(r)
			}
			result := limiter.Allow(ip)
			ratelimit.WriteHeaders(w, result)
			if !result.Allowed {
				apiErr := dto.RateLimitExceeded(int(result.RetryAfter.Seconds()))
				writeErrorResponse(w, apiErr.StatusCode(), apiErr.Code(), apiErr.Error(), apiErr.Details())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
