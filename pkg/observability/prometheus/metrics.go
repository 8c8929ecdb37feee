// Package prometheus exposes pool and HTTP server metrics through a
// dedicated Prometheus registry.
package prometheus

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// DefaultRegistry is the default Prometheus registry
	DefaultRegistry = prometheus.NewRegistry()

	// DefaultRegisterer is the default Prometheus registerer
	DefaultRegisterer = prometheus.WrapRegistererWith(prometheus.Labels{"service": "spool"}, DefaultRegistry)

	metricsOnce sync.Once
	metrics     *Metrics
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Pool metrics
	JobsSubmitted prometheus.Counter
	JobsCompleted prometheus.Counter
	JobPanics     prometheus.Counter
	QueueDepth    prometheus.Gauge
	BusyWorkers   prometheus.Gauge
	JobDuration   prometheus.Histogram

	// HTTP server metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = NewMetrics(DefaultRegisterer)
	})
	return metrics
}

// NewMetrics creates a new metrics collection
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = DefaultRegisterer
	}

	return &Metrics{
		JobsSubmitted: promauto.With(registerer).NewCounter(
			prometheus.CounterOpts{
				Name: "spool_jobs_submitted_total",
				Help: "Total number of jobs accepted by the pool",
			},
		),
		JobsCompleted: promauto.With(registerer).NewCounter(
			prometheus.CounterOpts{
				Name: "spool_jobs_completed_total",
				Help: "Total number of jobs that ran to completion",
			},
		),
		JobPanics: promauto.With(registerer).NewCounter(
			prometheus.CounterOpts{
				Name: "spool_job_panics_total",
				Help: "Total number of jobs that panicked and killed their worker",
			},
		),
		QueueDepth: promauto.With(registerer).NewGauge(
			prometheus.GaugeOpts{
				Name: "spool_queue_depth",
				Help: "Number of jobs accepted but not yet dequeued",
			},
		),
		BusyWorkers: promauto.With(registerer).NewGauge(
			prometheus.GaugeOpts{
				Name: "spool_busy_workers",
				Help: "Number of workers currently executing a job",
			},
		),
		JobDuration: promauto.With(registerer).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "spool_job_duration_seconds",
				Help:    "Job execution duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		HTTPRequestsTotal: promauto.With(registerer).NewCounterVec(
			prometheus.CounterOpts{
				Name: "spool_http_requests_total",
				Help: "Total number of HTTP requests served",
			},
			[]string{"route", "status"},
		),
		HTTPRequestDuration: promauto.With(registerer).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "spool_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "status"},
		),
	}
}

// RecordHTTPRequest records a served request
func (m *Metrics) RecordHTTPRequest(route, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(route, status).Observe(duration.Seconds())
}

// Handler returns an http.Handler exposing the default registry
func Handler() http.Handler {
	return promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{})
}
