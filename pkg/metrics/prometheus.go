// Package metrics provides Prometheus metrics for the campusbites services.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	namespace              = "campusbites"
	defaultRefreshInterval = 10 * time.Second
)

// latencyBucketsMs spans in-memory queries (sub-millisecond) up to slow
// provider calls (seconds). All latency histograms record milliseconds.
var latencyBucketsMs = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000}

// Manager manages all Prometheus metrics for campusbites.
type Manager struct {
	enabled         bool
	refreshInterval time.Duration
	registry        prometheus.Registerer

	// Query Metrics - presentation operations over the cached document
	queriesServed *prometheus.CounterVec
	queryLatency  *prometheus.HistogramVec
	queryErrors   *prometheus.CounterVec

	// Cache Metrics - document load and shape
	cacheLoadDuration prometheus.Histogram
	cacheLoadErrors   prometheus.Counter
	cacheLastLoadUnix prometheus.Gauge
	cacheVenues       prometheus.Gauge
	cacheUniversities prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Ingestion Metrics - provider traffic and output
	providerRequests  *prometheus.CounterVec
	providerLatency   *prometheus.HistogramVec
	ingestedVenues    prometheus.Counter
	ingestedParks     prometheus.Counter
	ingestRunDuration prometheus.Gauge

	// Memo Metrics - proximity search memo
	memoHits   prometheus.Counter
	memoMisses prometheus.Counter
	memoErrors prometheus.Counter

	// Error Metrics - detailed error tracking
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		enabled:         true,
		refreshInterval: defaultRefreshInterval,
		registry:        prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// RefreshInterval returns how often gauge metrics should be refreshed.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

// Enabled reports whether recording is enabled.
func (m *Manager) Enabled() bool { return m.enabled }

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.queriesServed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "queries_total",
		Help:      "Total number of presentation queries served, by operation",
	}, []string{"operation"})

	m.queryLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "query_latency_milliseconds",
		Help:      "Histogram of presentation query latency in milliseconds",
		Buckets:   latencyBucketsMs,
	}, []string{"operation"})

	m.queryErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "query_errors_total",
		Help:      "Total number of failed presentation queries, by operation and kind",
	}, []string{"operation", "kind"})

	m.cacheLoadDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "cache_load_duration_milliseconds",
		Help:      "Time spent reading and validating the cache document",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})

	m.cacheLoadErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_load_errors_total",
		Help:      "Total number of failed cache document loads",
	})

	m.cacheLastLoadUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_last_load_unix",
		Help:      "Unix time of the last successful cache document load",
	})

	m.cacheVenues = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_venues",
		Help:      "Number of venues in the loaded cache document",
	})

	m.cacheUniversities = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_universities",
		Help:      "Number of universities in the loaded cache document",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   latencyBucketsMs,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.providerRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Total number of requests sent to listing and places providers",
		},
		[]string{"provider", "outcome"},
	)

	m.providerLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_latency_milliseconds",
			Help:      "Provider round trip latency in milliseconds",
			Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		},
		[]string{"provider"},
	)

	m.ingestedVenues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingested_venues_total",
		Help:      "Total number of venues written by ingestion runs",
	})

	m.ingestedParks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingested_parks_total",
		Help:      "Total number of nearby parks attached by ingestion runs",
	})

	m.ingestRunDuration = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ingest_last_run_seconds",
		Help:      "Duration of the last ingestion run in seconds",
	})

	m.memoHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "places_memo_hits_total",
		Help:      "Proximity searches answered from the memo",
	})

	m.memoMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "places_memo_misses_total",
		Help:      "Proximity searches forwarded to the provider",
	})

	m.memoErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "places_memo_errors_total",
		Help:      "Memo reads or writes that failed and were bypassed",
	})

	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component",
		},
		[]string{"component", "error_type"},
	)

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_by_type_total",
			Help:      "Total number of errors by type",
		},
		[]string{"error_type", "severity"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// Query Metrics Functions.

// RecordQuery records a served presentation query and its latency.
func RecordQuery(operation string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.queriesServed.WithLabelValues(operation).Inc()
	globalManager.queryLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordQueryError records a failed presentation query.
func RecordQueryError(operation, kind string) {
	if !globalManager.enabled {
		return
	}
	globalManager.queryErrors.WithLabelValues(operation, kind).Inc()
}

// Cache Metrics Functions.

// RecordCacheLoad records a successful document load.
func RecordCacheLoad(durationMs float64, universities, venues int) {
	if !globalManager.enabled {
		return
	}
	globalManager.cacheLoadDuration.Observe(durationMs)
	globalManager.cacheLastLoadUnix.Set(float64(time.Now().Unix()))
	globalManager.cacheUniversities.Set(float64(universities))
	globalManager.cacheVenues.Set(float64(venues))
}

// RecordCacheLoadError increments the failed load counter.
func RecordCacheLoadError() {
	if !globalManager.enabled {
		return
	}
	globalManager.cacheLoadErrors.Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Ingestion Metrics Functions.

// RecordProviderRequest records one provider round trip. Outcome is "ok" or
// a short error kind.
func RecordProviderRequest(provider, outcome string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.providerRequests.WithLabelValues(provider, outcome).Inc()
	globalManager.providerLatency.WithLabelValues(provider).Observe(latencyMs)
}

// RecordIngestedVenue counts one venue and its parks.
func RecordIngestedVenue(parks int) {
	if !globalManager.enabled {
		return
	}
	globalManager.ingestedVenues.Inc()
	globalManager.ingestedParks.Add(float64(parks))
}

// UpdateIngestRunDuration sets the duration of the last ingestion run.
func UpdateIngestRunDuration(d time.Duration) {
	if !globalManager.enabled {
		return
	}
	globalManager.ingestRunDuration.Set(d.Seconds())
}

// Memo Metrics Functions.

// RecordMemoHit increments the memo hit counter.
func RecordMemoHit() {
	if !globalManager.enabled {
		return
	}
	globalManager.memoHits.Inc()
}

// RecordMemoMiss increments the memo miss counter.
func RecordMemoMiss() {
	if !globalManager.enabled {
		return
	}
	globalManager.memoMisses.Inc()
}

// RecordMemoError increments the memo error counter.
func RecordMemoError() {
	if !globalManager.enabled {
		return
	}
	globalManager.memoErrors.Inc()
}

// Error Metrics Functions.

// RecordErrorByComponent records an error by component.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// SetEnabled switches recording of domain metrics on or off globally.
func SetEnabled(enabled bool) {
	WithMetricsEnabled(enabled)(globalManager)
}

// SetRefreshInterval changes how often sampled gauges are refreshed.
// Non-positive intervals are ignored.
func SetRefreshInterval(interval time.Duration) {
	WithRefreshInterval(interval)(globalManager)
}

// RefreshInterval returns how often the global manager's sampled gauges
// should be refreshed.
func RefreshInterval() time.Duration {
	return globalManager.RefreshInterval()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
