package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records order fulfillment outcomes.
type Metrics struct {
	OrdersCreated      prometheus.Counter
	StockRejections    prometheus.Counter
	StockCompensations prometheus.Counter
	FlowDuration       *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		OrdersCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "warehouse_orders_created_total",
			Help: "Orders persisted with stock decremented",
		}),
		StockRejections: f.NewCounter(prometheus.CounterOpts{
			Name: "warehouse_order_insufficient_stock_total",
			Help: "Order writes rejected for insufficient stock",
		}),
		StockCompensations: f.NewCounter(prometheus.CounterOpts{
			Name: "warehouse_order_stock_compensations_total",
			Help: "Stock decrements rolled back after a lost race",
		}),
		FlowDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "warehouse_order_flow_duration_seconds",
			Help:    "Duration of order fulfillment operations",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}), // create, update, delete
	}
}

func (m *Metrics) IncrementCreated() {
	if m != nil {
		m.OrdersCreated.Inc()
	}
}

func (m *Metrics) IncrementRejected() {
	if m != nil {
		m.StockRejections.Inc()
	}
}

func (m *Metrics) IncrementCompensated() {
	if m != nil {
		m.StockCompensations.Inc()
	}
}

func (m *Metrics) ObserveFlow(operation string, start time.Time) {
	if m != nil {
		m.FlowDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
