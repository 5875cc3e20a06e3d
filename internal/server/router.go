// Package server implements the HTTP server and routing logic.
package server

import (
	"net/http"
	"time"

	"github.com/flatdb/flatdb/internal/server/handlers"
	"github.com/flatdb/flatdb/internal/server/ratelimit"
)

// Config holds router-level settings.
type Config struct {
	// DefaultLimit and MaxLimit bound the page size on listing queries.
	DefaultLimit int
	MaxLimit     int
	// RateRequestsPerMin and RateBurst configure per-IP limiting.
	// Zero RateRequestsPerMin disables it.
	RateRequestsPerMin int
	RateBurst          int
	// Version is reported by /api/health.
	Version string
}

// NewRouter creates and configures the HTTP router. All endpoints are
// read-only GETs over the current snapshot.
func NewRouter(svc *handlers.Services, cfg *Config) http.Handler {
	hcfg := &handlers.Config{
		DefaultLimit: cfg.DefaultLimit,
		MaxLimit:     cfg.MaxLimit,
		Version:      cfg.Version,
	}

	rh := handlers.NewRowsHandler(svc.Dataset, hcfg)
	ch := handlers.NewColumnsHandler(svc.Dataset)
	hh := handlers.NewHealthHandler(svc.Dataset, cfg.Version)

	mux := &http.ServeMux{}
	mux.Handle("GET /api/health", Wrap(hh.Health))
	mux.Handle("GET /api/info", Wrap(hh.Info))
	mux.Handle("GET /api/rows", Wrap(rh.List))
	mux.Handle("GET /api/rows/{id}", Wrap(rh.Get))
	mux.Handle("GET /api/columns", Wrap(ch.List))
	mux.Handle("GET /api/stats", Wrap(ch.Stats))
	mux.Handle("GET /api/values/{column}", Wrap(ch.Values))

	var limiter *ratelimit.Limiter
	if cfg.RateRequestsPerMin > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = ratelimit.NewLimiter(cfg.RateRequestsPerMin, time.Minute, burst)
	}
	return RequestLogger(RateLimit(limiter)(mux))
}
