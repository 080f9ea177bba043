package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Created      *prometheus.CounterVec
	Deduplicated prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Created: f.NewCounterVec(prometheus.CounterOpts{
			Name: "warehouse_notifications_created_total",
			Help: "Notifications created by category",
		}, []string{"category"}),
		Deduplicated: f.NewCounter(prometheus.CounterOpts{
			Name: "warehouse_notifications_deduplicated_total",
			Help: "Notifications skipped because their idempotency key already existed",
		}),
	}
}

func (m *Metrics) IncrementCreated(category string) {
	if m != nil {
		m.Created.WithLabelValues(category).Inc()
	}
}

func (m *Metrics) IncrementDeduplicated() {
	if m != nil {
		m.Deduplicated.Inc()
	}
}
