// Package metrics provides Prometheus metrics for the versus comparison service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the versus service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Core Business Metrics - what the comparison tool actually does
	recomputes       *prometheus.CounterVec
	recomputeLatency prometheus.Histogram
	filteredResults  prometheus.Histogram
	eventsApplied    *prometheus.CounterVec
	eventsDuplicate  prometheus.Counter
	eventsRejected   *prometheus.CounterVec
	searchCoalesced  prometheus.Counter
	comparisons      *prometheus.CounterVec

	// Session Metrics
	sessionsActive  prometheus.Gauge
	sessionsCreated prometheus.Counter
	sessionsExpired prometheus.Counter
	catalogVehicles prometheus.Gauge

	// Inbox Metrics - per-session event queues
	inboxEnqueue       prometheus.Counter
	inboxEnqueueErrors *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

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
		namespace:        "versus",
		subsystem:        "compare",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.recomputes = auto.NewCounterVec(
		m.counterOpts("recomputes_total", "Total number of filter/rank/summary recomputes by trigger"),
		[]string{"trigger"},
	)
	m.recomputeLatency = auto.NewHistogram(
		m.histogramOpts("recompute_latency_milliseconds", "Histogram of recompute latency in milliseconds",
			[]float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}),
	)
	m.filteredResults = auto.NewHistogram(
		m.histogramOpts("filtered_results", "Number of vehicles left after filtering",
			[]float64{0, 1, 2, 5, 10, 20, 50, 100}),
	)
	m.eventsApplied = auto.NewCounterVec(
		m.counterOpts("events_applied_total", "Total number of input events applied by kind"),
		[]string{"kind"},
	)
	m.eventsDuplicate = auto.NewCounter(
		m.counterOpts("events_duplicate_total", "Total number of duplicate input events ignored"),
	)
	m.eventsRejected = auto.NewCounterVec(
		m.counterOpts("events_rejected_total", "Total number of input events rejected by reason"),
		[]string{"reason"},
	)
	m.searchCoalesced = auto.NewCounter(
		m.counterOpts("search_coalesced_total", "Search keystrokes superseded before the quiet period elapsed"),
	)
	m.comparisons = auto.NewCounterVec(
		m.counterOpts("comparisons_total", "Summaries produced by outcome"),
		[]string{"outcome"},
	)

	m.sessionsActive = auto.NewGauge(m.gaugeOpts("sessions_active", "Current number of live sessions"))
	m.sessionsCreated = auto.NewCounter(m.counterOpts("sessions_created_total", "Total number of sessions created"))
	m.sessionsExpired = auto.NewCounter(m.counterOpts("sessions_expired_total", "Total number of sessions evicted for inactivity"))
	m.catalogVehicles = auto.NewGauge(m.gaugeOpts("catalog_vehicles", "Number of vehicles in the loaded catalog"))

	m.inboxEnqueue = auto.NewCounter(m.counterOpts("inbox_enqueue_total", "Total number of events accepted by session inboxes"))
	m.inboxEnqueueErrors = auto.NewCounterVec(
		m.counterOpts("inbox_enqueue_errors_total", "Total number of events refused by session inboxes"),
		[]string{"reason"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by endpoint, method and type"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		m.histogramOpts("error_latency_milliseconds", "Latency of operations that ended in an error", m.histogramBuckets),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// RecordRecompute counts a recompute for the given trigger and observes its latency.
func RecordRecompute(trigger string, latencyMs float64, results int) {
	globalManager.recomputes.WithLabelValues(trigger).Inc()
	globalManager.recomputeLatency.Observe(latencyMs)
	globalManager.filteredResults.Observe(float64(results))
}

// RecordEventApplied increments the applied events counter for kind.
func RecordEventApplied(kind string) {
	globalManager.eventsApplied.WithLabelValues(kind).Inc()
}

// RecordEventDuplicate increments the duplicate events counter.
func RecordEventDuplicate() {
	globalManager.eventsDuplicate.Inc()
}

// RecordEventRejected increments the rejected events counter for reason.
func RecordEventRejected(reason string) {
	globalManager.eventsRejected.WithLabelValues(reason).Inc()
}

// RecordSearchCoalesced counts a superseded search keystroke.
func RecordSearchCoalesced() {
	globalManager.searchCoalesced.Inc()
}

// RecordComparison counts a produced summary by outcome (unavailable, tie, winner).
func RecordComparison(outcome string) {
	globalManager.comparisons.WithLabelValues(outcome).Inc()
}

// UpdateSessionsActive sets the live session gauge.
func UpdateSessionsActive(count int) {
	globalManager.sessionsActive.Set(float64(count))
}

// RecordSessionCreated increments the created sessions counter.
func RecordSessionCreated() {
	globalManager.sessionsCreated.Inc()
}

// RecordSessionExpired increments the expired sessions counter.
func RecordSessionExpired() {
	globalManager.sessionsExpired.Inc()
}

// UpdateCatalogVehicles sets the catalog size gauge.
func UpdateCatalogVehicles(count int) {
	globalManager.catalogVehicles.Set(float64(count))
}

// RecordInboxEnqueue increments the inbox enqueue counter.
func RecordInboxEnqueue() {
	globalManager.inboxEnqueue.Inc()
}

// RecordInboxEnqueueError increments the inbox enqueue error counter.
func RecordInboxEnqueueError(reason string) {
	globalManager.inboxEnqueueErrors.WithLabelValues(reason).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

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

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
