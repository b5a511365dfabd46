// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the set of collectors for one process. Each instance owns its
// registry, so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	// Analyses counts completed gap analyses by scorer ("local", "remote").
	Analyses *prometheus.CounterVec

	// ScorerFallbacks counts remote scorer failures answered locally.
	ScorerFallbacks prometheus.Counter

	// Readiness observes overall readiness scores.
	Readiness prometheus.Histogram

	// Assessments counts submitted assessments by awarded level.
	Assessments *prometheus.CounterVec

	// CoachRequests counts coach calls by feature and outcome.
	CoachRequests *prometheus.CounterVec

	// HTTPDuration observes API latency by method, route and status.
	HTTPDuration *prometheus.HistogramVec
}

// New creates and registers the collectors on a fresh registry, together
// with the standard Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Analyses: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skillsense_analyses_total",
				Help: "Total number of completed gap analyses",
			},
			[]string{"scorer"},
		),
		ScorerFallbacks: f.NewCounter(
			prometheus.CounterOpts{
				Name: "skillsense_scorer_fallbacks_total",
				Help: "Remote scorer failures served by the local scorer",
			},
		),
		Readiness: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "skillsense_readiness_score",
				Help:    "Overall readiness of completed analyses",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
		),
		Assessments: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skillsense_assessments_completed_total",
				Help: "Submitted assessments by awarded level",
			},
			[]string{"level"},
		),
		CoachRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skillsense_coach_requests_total",
				Help: "Coach requests by feature and status",
			},
			[]string{"feature", "status"}, // status: ok/error/rate_limited
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "skillsense_http_request_duration_seconds",
				Help:    "Time spent serving API requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
