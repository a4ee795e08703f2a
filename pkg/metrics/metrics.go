package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Quality-classifier (AI) metrics
	AIRequestsTotal    *prometheus.CounterVec
	AIRequestDuration  *prometheus.HistogramVec
	AIRequestsInFlight prometheus.Gauge

	// Database metrics
	DBConnectionsActive prometheus.Gauge
	DBConnectionsIdle   prometheus.Gauge
	DBQueriesTotal      *prometheus.CounterVec
	DBQueryDuration     *prometheus.HistogramVec

	// Platform fetch metrics
	PlatformFetchTotal    *prometheus.CounterVec
	PlatformFetchDuration *prometheus.HistogramVec
	PlatformCreditsExhausted *prometheus.CounterVec

	// Worker cycle metrics
	WorkerCycleTotal      *prometheus.CounterVec
	WorkerCycleDuration   prometheus.Histogram
	WorkerCycleProcessed  prometheus.Counter
	WorkerCycleViral      prometheus.Counter
	WorkerCycleSkipped    prometheus.Counter
	WorkerCycleErrors     prometheus.Counter
	WorkerCycleRejected   prometheus.Counter

	// System metrics
	ErrorsTotal *prometheus.CounterVec
	PanicTotal  prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// HTTP metrics
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint", "status_code"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		// Quality-classifier metrics
		AIRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "classifier_requests_total",
				Help: "Total number of quality-classifier requests",
			},
			[]string{"model", "status"},
		),
		AIRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "classifier_request_duration_seconds",
				Help:    "Duration of quality-classifier requests in seconds",
				Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
			},
			[]string{"model"},
		),
		AIRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "classifier_requests_in_flight",
				Help: "Number of quality-classifier requests currently being processed",
			},
		),

		// Database metrics
		DBConnectionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "db_connections_active",
				Help: "Number of active database connections",
			},
		),
		DBConnectionsIdle: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "db_connections_idle",
				Help: "Number of idle database connections",
			},
		),
		DBQueriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "db_queries_total",
				Help: "Total number of database queries",
			},
			[]string{"operation", "table", "status"},
		),
		DBQueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "db_query_duration_seconds",
				Help:    "Duration of database queries in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"operation", "table"},
		),

		// Platform fetch metrics
		PlatformFetchTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "platform_fetch_total",
				Help: "Total number of platform adapter fetch calls",
			},
			[]string{"platform", "status"},
		),
		PlatformFetchDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "platform_fetch_duration_seconds",
				Help:    "Duration of platform adapter fetch calls in seconds",
				Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
			[]string{"platform"},
		),
		PlatformCreditsExhausted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "platform_credits_exhausted_total",
				Help: "Total number of times a platform reported credits exhausted",
			},
			[]string{"platform"},
		),

		// Worker cycle metrics
		WorkerCycleTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "worker_cycles_total",
				Help: "Total number of worker ingestion cycles run",
			},
			[]string{"status"},
		),
		WorkerCycleDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "worker_cycle_duration_seconds",
				Help:    "Duration of a worker ingestion cycle in seconds",
				Buckets: []float64{1, 5, 10, 30, 60, 300, 600, 1800},
			},
		),
		WorkerCycleProcessed: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "worker_cycle_processed_total",
				Help: "Total number of videos inserted across all cycles",
			},
		),
		WorkerCycleViral: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "worker_cycle_viral_total",
				Help: "Total number of inserted videos flagged is_viral",
			},
		),
		WorkerCycleSkipped: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "worker_cycle_skipped_total",
				Help: "Total number of videos skipped as duplicate inserts",
			},
		),
		WorkerCycleErrors: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "worker_cycle_errors_total",
				Help: "Total number of errors encountered during cycles",
			},
		),
		WorkerCycleRejected: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "worker_cycle_rejected_filter_total",
				Help: "Total number of videos rejected by the age-aware filter",
			},
		),

		// System metrics
		ErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "errors_total",
				Help: "Total number of errors",
			},
			[]string{"type", "component"},
		),
		PanicTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "panics_total",
				Help: "Total number of panics",
			},
		),
	}
}

// HTTPMiddleware returns a Gin middleware for HTTP metrics collection
func (m *Metrics) HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// Increment in-flight requests
		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		// Process request
		c.Next()

		// Record metrics
		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())

		labels := prometheus.Labels{
			"method":      c.Request.Method,
			"endpoint":    c.FullPath(),
			"status_code": statusCode,
		}

		m.HTTPRequestsTotal.With(labels).Inc()
		m.HTTPRequestDuration.With(labels).Observe(duration)
	}
}

// RecordAIRequest records metrics for a quality-classifier request
func (m *Metrics) RecordAIRequest(model, status string, duration time.Duration) {
	m.AIRequestsTotal.With(prometheus.Labels{"model": model, "status": status}).Inc()
	m.AIRequestDuration.With(prometheus.Labels{"model": model}).Observe(duration.Seconds())
}

// RecordDBQuery records metrics for database queries
func (m *Metrics) RecordDBQuery(operation, table, status string, duration time.Duration) {
	queryLabels := prometheus.Labels{
		"operation": operation,
		"table":     table,
		"status":    status,
	}
	m.DBQueriesTotal.With(queryLabels).Inc()

	durationLabels := prometheus.Labels{
		"operation": operation,
		"table":     table,
	}
	m.DBQueryDuration.With(durationLabels).Observe(duration.Seconds())
}

// RecordPlatformFetch records metrics for one platform adapter fetch call.
func (m *Metrics) RecordPlatformFetch(platform, status string, duration time.Duration) {
	m.PlatformFetchTotal.With(prometheus.Labels{"platform": platform, "status": status}).Inc()
	m.PlatformFetchDuration.With(prometheus.Labels{"platform": platform}).Observe(duration.Seconds())
}

// RecordCreditsExhausted records a platform reporting credits exhausted.
func (m *Metrics) RecordCreditsExhausted(platform string) {
	m.PlatformCreditsExhausted.With(prometheus.Labels{"platform": platform}).Inc()
}

// RecordWorkerCycle records the outcome counters of one worker cycle.
func (m *Metrics) RecordWorkerCycle(status string, duration time.Duration, processed, viral, skipped, errs, rejected int) {
	m.WorkerCycleTotal.With(prometheus.Labels{"status": status}).Inc()
	m.WorkerCycleDuration.Observe(duration.Seconds())
	m.WorkerCycleProcessed.Add(float64(processed))
	m.WorkerCycleViral.Add(float64(viral))
	m.WorkerCycleSkipped.Add(float64(skipped))
	m.WorkerCycleErrors.Add(float64(errs))
	m.WorkerCycleRejected.Add(float64(rejected))
}

// RecordError records metrics for errors
func (m *Metrics) RecordError(errorType, component string) {
	m.ErrorsTotal.With(prometheus.Labels{"type": errorType, "component": component}).Inc()
}

// RecordPanic records metrics for panics
func (m *Metrics) RecordPanic() {
	m.PanicTotal.Inc()
}

// UpdateDBConnections updates database connection metrics
func (m *Metrics) UpdateDBConnections(active, idle int) {
	m.DBConnectionsActive.Set(float64(active))
	m.DBConnectionsIdle.Set(float64(idle))
}

// IncrementAIInFlight increments quality-classifier requests in flight
func (m *Metrics) IncrementAIInFlight() {
	m.AIRequestsInFlight.Inc()
}

// DecrementAIInFlight decrements quality-classifier requests in flight
func (m *Metrics) DecrementAIInFlight() {
	m.AIRequestsInFlight.Dec()
}
