// Package middleware throttles unauthenticated endpoints per client IP.
package middleware

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"warehouse/internal/ratelimit/models"
	dErrors "warehouse/pkg/domain-errors"
	"warehouse/pkg/platform/httputil"
	"warehouse/pkg/requestcontext"
)

type Store interface {
	Allow(ctx context.Context, key string, policy models.Policy) (models.Result, error)
}

type Metrics interface {
	IncrementRateLimited(route string)
}

type Middleware struct {
	store   Store
	policy  models.Policy
	logger  *slog.Logger
	metrics Metrics
}

type Option func(*Middleware)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Middleware) { m.logger = logger }
}

func WithMetrics(metrics Metrics) Option {
	return func(m *Middleware) { m.metrics = metrics }
}

func New(store Store, policy models.Policy, opts ...Option) *Middleware {
	m := &Middleware{
		store:  store,
		policy: policy,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if !policy.Enabled() {
		m.logger.Info("rate limiting disabled")
	}
	return m
}

// Paths limits requests to the listed paths, one window per path and client
// IP. Other paths pass through untouched. Store failures fail open.
func (m *Middleware) Paths(paths ...string) func(http.Handler) http.Handler {
	limited := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		limited[strings.TrimRight(p, "/")] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := strings.TrimRight(r.URL.Path, "/")
			if _, ok := limited[route]; !ok || !m.policy.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			ip := requestcontext.ClientIP(ctx)
			result, err := m.store.Allow(ctx, route+"|"+ip, m.policy)
			if err != nil {
				m.logger.ErrorContext(ctx, "rate limit check failed", "error", err, "route", route)
				next.ServeHTTP(w, r)
				return
			}

			setHeaders(w, result)
			if !result.Allowed {
				m.logger.WarnContext(ctx, "rate limit exceeded", "route", route, "client_ip", ip)
				if m.metrics != nil {
					m.metrics.IncrementRateLimited(route)
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(result)))
				httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "Too many requests, please try again later"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func setHeaders(w http.ResponseWriter, result models.Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func retryAfterSeconds(result models.Result) int {
	secs := int(math.Ceil(result.RetryAfter.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
