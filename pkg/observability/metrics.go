package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/kanban/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the board's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	Transitions *prometheus.CounterVec
	StoreOps    *prometheus.CounterVec
	StoreTime   *prometheus.HistogramVec
}

// NewMetrics creates the collectors on a private registry, which also carries
// the Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kanban_transitions_total",
				Help: "Dispatched board actions by kind and outcome.",
			},
			[]string{"action", "outcome"},
		),
		StoreOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kanban_store_operations_total",
				Help: "Board store operations by kind and result.",
			},
			[]string{"op", "result"},
		),
		StoreTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kanban_store_duration_seconds",
				Help:    "Latency of board store operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
	}
	m.registry.MustRegister(
		m.Transitions,
		m.StoreOps,
		m.StoreTime,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks records every transition and store round-trip.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues(string(e.Action), string(e.Outcome)).Inc()
		},
		OnStore: func(_ context.Context, e *domain.StoreEvent) {
			result := "ok"
			if e.Err != nil {
				result = "error"
			}
			m.StoreOps.WithLabelValues(string(e.Op), result).Inc()
			m.StoreTime.WithLabelValues(string(e.Op)).Observe(e.Duration.Seconds())
		},
	}
}
