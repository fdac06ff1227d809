// Package metrics registers the Prometheus instruments for the order
// service and exposes the scrape handler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OrderMetrics bundles the business-level instruments. A nil *OrderMetrics
// is valid and turns every observation into a no-op, so tests and tools can
// run without a registry.
type OrderMetrics struct {
	OrdersCreated     prometheus.Counter
	StatusTransitions *prometheus.CounterVec
	CatalogLatency    prometheus.Histogram
}

// New registers the instruments with the default registry. Call once per
// process.
func New(service string) *OrderMetrics {
	m := &OrderMetrics{
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "orders",
			Subsystem: service,
			Name:      "created_total",
			Help:      "Total number of orders created.",
		}),
		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orders",
			Subsystem: service,
			Name:      "status_transitions_total",
			Help:      "Total number of order status transitions.",
		}, []string{"from", "to"}),
		CatalogLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "orders",
			Subsystem: service,
			Name:      "catalog_request_duration_ms",
			Help:      "Product catalog request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}),
	}
	prometheus.MustRegister(m.OrdersCreated, m.StatusTransitions, m.CatalogLatency)
	return m
}

// OrderCreated records one created order.
func (m *OrderMetrics) OrderCreated() {
	if m == nil {
		return
	}
	m.OrdersCreated.Inc()
}

// StatusChanged records one status transition.
func (m *OrderMetrics) StatusChanged(from, to string) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(from, to).Inc()
}

// CatalogCall records the latency of one catalog round trip.
func (m *OrderMetrics) CatalogCall(ms float64) {
	if m == nil {
		return
	}
	m.CatalogLatency.Observe(ms)
}

// Handler returns the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
