// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	OrdersPlaced   *prometheus.CounterVec
	OrdersFilled   *prometheus.CounterVec
	OrdersRejected *prometheus.CounterVec

	AlertsCreated   prometheus.Counter
	AlertsTriggered prometheus.Counter

	ChaosActivations *prometheus.CounterVec
}

// NewMetrics registers and returns all metrics under the given namespace.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "papertrade"
	}

	return &Metrics{
		OrdersPlaced: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trading",
			Name:      "orders_placed_total",
			Help:      "Total number of orders placed by side",
		}, []string{"side"}),
		OrdersFilled: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trading",
			Name:      "orders_filled_total",
			Help:      "Total number of orders filled by side",
		}, []string{"side"}),
		OrdersRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trading",
			Name:      "orders_rejected_total",
			Help:      "Total number of orders rejected by side",
		}, []string{"side"}),

		AlertsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "created_total",
			Help:      "Total number of price alerts created",
		}),
		AlertsTriggered: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "triggered_total",
			Help:      "Total number of price alerts triggered",
		}),

		ChaosActivations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chaos",
			Name:      "activations_total",
			Help:      "Total number of chaos scenario activations by scenario",
		}, []string{"scenario"}),
	}
}

// OrderPlaced implements trading.Metrics.
func (m *Metrics) OrderPlaced(side string) { m.OrdersPlaced.WithLabelValues(side).Inc() }

// OrderFilled implements trading.Metrics.
func (m *Metrics) OrderFilled(side string) { m.OrdersFilled.WithLabelValues(side).Inc() }

// OrderRejected implements trading.Metrics.
func (m *Metrics) OrderRejected(side string) { m.OrdersRejected.WithLabelValues(side).Inc() }

// AlertCreated implements alerts.Metrics.
func (m *Metrics) AlertCreated() { m.AlertsCreated.Inc() }

// AlertTriggered implements alerts.Metrics.
func (m *Metrics) AlertTriggered() { m.AlertsTriggered.Inc() }

// ChaosActivated implements chaos.Metrics.
func (m *Metrics) ChaosActivated(scenario string) {
	m.ChaosActivations.WithLabelValues(scenario).Inc()
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
