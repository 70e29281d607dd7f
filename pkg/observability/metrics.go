package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/edgebridge/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "edgebridge"

// Metrics holds the bridge's Prometheus collectors.
type Metrics struct {
	Invocations *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
	Reads       *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := newMetrics()
	reg.MustRegister(m.Invocations, m.Duration, m.Reads)
	m.gatherer = reg
	return m
}

func newMetrics() *Metrics {
	return &Metrics{
		Invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "invocations_total",
				Help:      "Composite command invocations by outcome.",
			},
			[]string{"command", "variant", "status"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "invocation_duration_seconds",
				Help:      "Duration of composite command invocations.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"command"},
		),
		Reads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resource_reads_total",
				Help:      "Resource reads by outcome.",
			},
			[]string{"status"},
		),
	}
}

// Gatherer returns the registry the collectors live in.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.gatherer
}

// Handler serves the collectors in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Hooks records every invocation and read.
// The status label is "ok" or the failure kind.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnResult: func(_ context.Context, e *domain.ResultEvent) {
			m.Invocations.WithLabelValues(e.Command, e.Variant, status(e.Kind)).Inc()
			m.Duration.WithLabelValues(e.Command).Observe(e.Duration.Seconds())
		},
		OnRead: func(_ context.Context, e *domain.ReadEvent) {
			m.Reads.WithLabelValues(status(e.Kind)).Inc()
		},
	}
}

func status(kind domain.Kind) string {
	if kind == "" {
		return "ok"
	}
	return string(kind)
}
