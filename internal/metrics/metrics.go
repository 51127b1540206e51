// Package metrics exposes Prometheus instrumentation for the dashboard
// service on a private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the service's collectors. A nil *Metrics is a valid no-op
// receiver so tests can wire components without instrumentation.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
	recomputeDuration   *prometheus.HistogramVec
	animationTicksTotal prometheus.Counter
}

// New creates the collectors on a fresh registry. sessionCount feeds the
// active_sessions gauge on every scrape.
func New(sessionCount func() int) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		recomputeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "recompute_duration_seconds",
			Help:    "Histogram of chart recomputation durations by trigger kind.",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}, []string{"kind"}),
		animationTicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "animation_ticks_total",
			Help: "Total animation ticks applied across all sessions.",
		}),
	}

	m.registry.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.recomputeDuration,
		m.animationTicksTotal,
	)
	if sessionCount != nil {
		m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "active_sessions",
			Help: "Number of live dashboard sessions.",
		}, func() float64 { return float64(sessionCount()) }))
	}
	return m
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// WrapHandler instruments a route with request count and duration.
func (m *Metrics) WrapHandler(route string, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ObserveRecompute records one chart recomputation. kind is the trigger:
// "selection", "tick", or "view".
func (m *Metrics) ObserveRecompute(kind string, duration time.Duration) {
	if m == nil {
		return
	}
	m.recomputeDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// AnimationTick counts one applied sequencer advance.
func (m *Metrics) AnimationTick() {
	if m == nil {
		return
	}
	m.animationTicksTotal.Inc()
}

// Handler serves the private registry in exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
