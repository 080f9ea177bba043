package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the process-wide HTTP metrics.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	InFlight        prometheus.Gauge
	UsersRegistered prometheus.Counter
	RateLimited     *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers HTTP metrics on reg. Pass prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "warehouse_http_request_duration_seconds",
			Help:    "HTTP request latency by method, route and status",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route", "status"}),
		InFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "warehouse_http_requests_in_flight",
			Help: "Requests currently being served",
		}),
		UsersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "warehouse_users_registered_total",
			Help: "Total number of users registered",
		}),
		RateLimited: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "warehouse_rate_limited_total",
			Help: "Requests rejected by the rate limiter, by route",
		}, []string{"route"}),
		gatherer: reg,
	}
}

// ObserveRequest records one finished request.
func (m *Metrics) ObserveRequest(method, route string, status int, start time.Time) {
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementUsersRegistered() {
	m.UsersRegistered.Inc()
}

func (m *Metrics) IncrementRateLimited(route string) {
	m.RateLimited.WithLabelValues(route).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
