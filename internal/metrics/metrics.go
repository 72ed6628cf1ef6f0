package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics of the API.
type Metrics struct {
	// Registry owns these metrics and backs the /metrics endpoint.
	Registry *prometheus.Registry

	httpDuration   *prometheus.HistogramVec
	reportDuration *prometheus.HistogramVec
	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
	cacheErrors    *prometheus.CounterVec
	events         *prometheus.CounterVec
}

// New creates a private registry and registers every application metric in it,
// so tests can build as many instances as they need.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pennywise_http_request_duration_seconds",
				Help:    "Duration of HTTP requests by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		reportDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pennywise_report_build_duration_seconds",
				Help:    "Time spent assembling a report from storage.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pennywise_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pennywise_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		cacheErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pennywise_cache_errors_total",
				Help: "Total cache backend errors.",
			},
			[]string{"cache"},
		),
		events: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pennywise_events_published_total",
				Help: "Total realtime events published by entity.",
			},
			[]string{"entity"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	m.httpDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}

// ObserveReportBuild records the time spent building a report or dashboard.
func (m *Metrics) ObserveReportBuild(kind string, d time.Duration) {
	m.reportDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrCacheError increments the cache error counter.
func (m *Metrics) IncrCacheError(cache string) {
	m.cacheErrors.WithLabelValues(cache).Inc()
}

// IncrEvent counts a published realtime event.
func (m *Metrics) IncrEvent(entity string) {
	m.events.WithLabelValues(entity).Inc()
}
