// Package metrics exposes Prometheus collectors for pathfinding queries.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pfield"

// Metrics records query outcomes on a private registry.
type Metrics struct {
	queries      *prometheus.CounterVec
	pathLength   prometheus.Histogram
	walkSteps    prometheus.Counter
	fieldSeconds prometheus.Histogram

	registry *prometheus.Registry
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queries_total",
				Help:      "Total number of path queries by outcome",
			},
			[]string{"outcome", "diagonal"},
		),
		pathLength: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "path_length_cells",
				Help:      "Length of successful paths in cells",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		walkSteps: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "walk_steps_total",
				Help:      "Total number of walker moves",
			},
		),
		fieldSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "field_build_duration_seconds",
				Help:      "Time spent building potential fields",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
	registry.MustRegister(m.queries, m.pathLength, m.walkSteps, m.fieldSeconds)
	return m
}

// RecordQuery counts a finished query. A zero pathLength is a failure.
func (m *Metrics) RecordQuery(diagonal string, pathLength int) {
	outcome := "failed"
	if pathLength > 0 {
		outcome = "succeeded"
		m.pathLength.Observe(float64(pathLength))
	}
	m.queries.WithLabelValues(outcome, diagonal).Inc()
}

// RecordStep counts one walker move.
func (m *Metrics) RecordStep() {
	m.walkSteps.Inc()
}

// RecordFieldBuild observes the duration of one field build.
func (m *Metrics) RecordFieldBuild(d time.Duration) {
	m.fieldSeconds.Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
