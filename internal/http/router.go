// Package httpapi assembles the middleware chain and mounts every resource
// handler under /api.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"warehouse/internal/platform/metrics"
	"warehouse/internal/platform/middleware"
	dErrors "warehouse/pkg/domain-errors"
	"warehouse/pkg/platform/httputil"
	"warehouse/pkg/platform/middleware/auth"
	"warehouse/pkg/platform/middleware/metadata"
	"warehouse/pkg/platform/middleware/requesttime"
)

// Module is implemented by every resource handler.
type Module interface {
	Register(r chi.Router)
}

// Static serves locally stored uploads. Empty Dir disables it.
type Static struct {
	Prefix string
	Dir    string
}

// HealthCheck reports whether a backing service is reachable.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type Config struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Gate    *auth.Gate
	// RateLimit runs ahead of authentication on /api. Nil disables it.
	RateLimit      func(http.Handler) http.Handler
	RequestTimeout time.Duration
	Uploads        Static
	Health         []HealthCheck
	Modules        []Module
}

func NewRouter(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Logger(logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Latency(cfg.Metrics))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusMethodNotAllowed, httputil.ErrorBody{
			Error: "method not allowed",
			Code:  string(dErrors.CodeBadRequest),
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		for _, hc := range cfg.Health {
			if err := hc.Check(req.Context()); err != nil {
				logger.WarnContext(req.Context(), "health check failed", "check", hc.Name, "error", err)
				httputil.WriteJSON(w, http.StatusServiceUnavailable, httputil.ErrorBody{
					Error: hc.Name + " unavailable",
					Code:  string(dErrors.CodeInternal),
				})
				return
			}
		}
		httputil.WriteMessage(w, http.StatusOK, "ok")
	})
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}
	if cfg.Uploads.Dir != "" {
		prefix := "/" + strings.Trim(cfg.Uploads.Prefix, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.Uploads.Dir))))
	}

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))
		if cfg.RateLimit != nil {
			api.Use(cfg.RateLimit)
		}
		if cfg.Gate != nil {
			api.Use(cfg.Gate.RequireAuth)
		}
		for _, m := range cfg.Modules {
			m.Register(api)
		}
	})
	return r
}
