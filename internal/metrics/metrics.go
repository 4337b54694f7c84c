// Package metrics exposes editor activity as Prometheus collectors fed by lifecycle hooks.
package metrics

import (
	"context"
	"net/http"

	"github.com/Edusharks/block-ide-vite-sub001/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of one registry.
type Metrics struct {
	registry *prometheus.Registry

	Mutations *prometheus.CounterVec
	Rejected  *prometheus.CounterVec
	Derive    prometheus.Histogram
	Exports   *prometheus.CounterVec
}

// New creates the collectors on a private registry, together with the Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blockfactory_mutations_total",
				Help: "Total number of accepted editing events",
			},
			[]string{"kind"},
		),
		Rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blockfactory_rejected_mutations_total",
				Help: "Total number of rejected editing events",
			},
			[]string{"kind"},
		),
		Derive: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "blockfactory_derive_seconds",
				Help:    "Duration of a full re-derivation pass",
				Buckets: prometheus.ExponentialBuckets(0.00005, 2, 12),
			},
		),
		Exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blockfactory_exports_total",
				Help: "Total number of exported artifacts",
			},
			[]string{"format"},
		),
	}
	m.registry.MustRegister(
		m.Mutations, m.Rejected, m.Derive, m.Exports,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnMutation: func(_ context.Context, e *domain.MutationEvent) {
			m.Mutations.WithLabelValues(string(e.Event.Kind)).Inc()
		},
		OnReject: func(_ context.Context, e *domain.MutationEvent) {
			m.Rejected.WithLabelValues(string(e.Event.Kind)).Inc()
		},
		OnDerive: func(_ context.Context, e *domain.DeriveEvent) {
			m.Derive.Observe(e.Duration.Seconds())
		},
		OnExport: func(_ context.Context, e *domain.ExportEvent) {
			m.Exports.WithLabelValues(e.Format).Inc()
		},
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
