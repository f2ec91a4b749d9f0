// Package metrics provides Prometheus metrics for the ratingscope service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Lookup metrics
	lookups           *prometheus.CounterVec
	lookupDuration    prometheus.Histogram
	syntheticProfiles prometheus.Counter
	cacheEntries      prometheus.Gauge

	// Extraction metrics
	extractionStages *prometheus.CounterVec

	// Fetch metrics
	fetches       *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec

	// Warm-up queue metrics
	warmQueueDepth prometheus.Gauge
	warmJobs       *prometheus.CounterVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry *prometheus.Registry //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	Init()
}

// Init rebuilds the global manager with opts on a fresh registry. Call it
// at startup, before anything records or serves metrics.
func Init(opts ...Option) {
	registry := prometheus.NewRegistry()
	all := make([]Option, 0, len(opts)+1)
	all = append(all, opts...)
	all = append(all, WithPrometheusRegistry(registry))
	customRegistry = registry
	globalManager = NewManager(all...)
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "ratingscope",
		subsystem:        "profiles",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.lookups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "lookups_total",
		Help:      "Profile lookups by cache outcome (hit or miss)",
	}, []string{"outcome"})

	m.lookupDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "lookup_duration_milliseconds",
		Help:      "Time to answer a profile lookup in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.syntheticProfiles = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "synthetic_profiles_total",
		Help:      "Profiles generated by the synthetic fallback",
	})

	m.cacheEntries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_entries",
		Help:      "Entries currently held by the profile cache",
	})

	m.extractionStages = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "extraction_stage_total",
		Help:      "Which extraction strategy produced each field",
	}, []string{"field", "stage"})

	m.fetches = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetches_total",
		Help:      "Document fetches by authority and result",
	}, []string{"authority", "result"})

	m.fetchDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_duration_milliseconds",
		Help:      "Document fetch duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"authority"})

	m.warmQueueDepth = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "warm_queue_depth",
		Help:      "Player ids waiting to be warmed into the cache",
	})

	m.warmJobs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "warm_jobs_total",
		Help:      "Warm-up jobs by result (enqueued, rejected, loaded, cached, failed)",
	}, []string{"result"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.httpErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_errors_total",
		Help:      "HTTP error responses by endpoint and error type",
	}, []string{"endpoint", "method", "error_type"})
}

// RecordLookup counts a lookup and its latency.
func (m *Manager) RecordLookup(cached bool, durationMs float64) {
	outcome := "miss"
	if cached {
		outcome = "hit"
	}
	m.lookups.WithLabelValues(outcome).Inc()
	m.lookupDuration.Observe(durationMs)
}

// RecordSynthetic counts a synthetic fallback profile.
func (m *Manager) RecordSynthetic() { m.syntheticProfiles.Inc() }

// UpdateCacheEntries sets the cache size gauge.
func (m *Manager) UpdateCacheEntries(n int64) { m.cacheEntries.Set(float64(n)) }

// RecordExtractionStage counts which strategy produced field.
func (m *Manager) RecordExtractionStage(field, stage string) {
	m.extractionStages.WithLabelValues(field, stage).Inc()
}

// RecordFetch counts a fetch and its latency.
func (m *Manager) RecordFetch(authority, result string, durationMs float64) {
	m.fetches.WithLabelValues(authority, result).Inc()
	m.fetchDuration.WithLabelValues(authority).Observe(durationMs)
}

// UpdateWarmQueueDepth sets the warm-up queue depth gauge.
func (m *Manager) UpdateWarmQueueDepth(n int) { m.warmQueueDepth.Set(float64(n)) }

// RecordWarmJob counts a warm-up job outcome.
func (m *Manager) RecordWarmJob(result string) { m.warmJobs.WithLabelValues(result).Inc() }

// RecordHTTPRequest records an HTTP request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError records an HTTP error response.
func (m *Manager) RecordHTTPError(endpoint, method, errorType string) {
	m.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
}

// Package-level helpers record on the global manager.

// RecordLookup counts a lookup on the global manager.
func RecordLookup(cached bool, durationMs float64) { globalManager.RecordLookup(cached, durationMs) }

// RecordSynthetic counts a synthetic profile on the global manager.
func RecordSynthetic() { globalManager.RecordSynthetic() }

// UpdateCacheEntries sets the cache size on the global manager.
func UpdateCacheEntries(n int64) { globalManager.UpdateCacheEntries(n) }

// RecordExtractionStage counts an extraction stage on the global manager.
func RecordExtractionStage(field, stage string) { globalManager.RecordExtractionStage(field, stage) }

// RecordFetch counts a fetch on the global manager.
func RecordFetch(authority, result string, durationMs float64) {
	globalManager.RecordFetch(authority, result, durationMs)
}

// UpdateWarmQueueDepth sets the warm-up queue depth on the global manager.
func UpdateWarmQueueDepth(n int) { globalManager.UpdateWarmQueueDepth(n) }

// RecordWarmJob counts a warm-up job on the global manager.
func RecordWarmJob(result string) { globalManager.RecordWarmJob(result) }

// RecordHTTPRequest records an HTTP request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordHTTPError records an HTTP error on the global manager.
func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.RecordHTTPError(endpoint, method, errorType)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
