// Package metrics provides Prometheus metrics for the HTTP API and report queries
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPMetrics contains Prometheus metrics for HTTP handler operations
type HTTPMetrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	reportQueriesTotal  *prometheus.CounterVec
	reportDuration      *prometheus.HistogramVec
}

// NewHTTPMetrics creates and registers the metrics on a fresh registry
func NewHTTPMetrics() (*HTTPMetrics, error) {
	m := &HTTPMetrics{registry: prometheus.NewRegistry()}

	m.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"}, // path is the route pattern, not the raw URL
	)

	m.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Time taken for HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	m.reportQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_queries_total",
			Help: "Total number of report computations by outcome",
		},
		[]string{"report", "outcome"}, // outcome: success, error
	)

	m.reportDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "report_duration_seconds",
			Help:    "Time taken to compute a report",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"report"},
	)

	if err := m.registry.Register(m); err != nil {
		return nil, err
	}
	if err := m.registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, err
	}
	if err := m.registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *HTTPMetrics) getCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.reportQueriesTotal,
		m.reportDuration,
	}
}

// Describe implements the Collector interface
func (m *HTTPMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.getCollectors() {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *HTTPMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.getCollectors() {
		collector.Collect(ch)
	}
}

// RecordHTTPRequest records an HTTP request
func (m *HTTPMetrics) RecordHTTPRequest(method, path string, statusCode int, seconds float64) {
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(seconds)
}

// RecordReport records one report computation
func (m *HTTPMetrics) RecordReport(report string, seconds float64, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.reportQueriesTotal.WithLabelValues(report, outcome).Inc()
	m.reportDuration.WithLabelValues(report).Observe(seconds)
}

// Handler serves the registry in the Prometheus exposition format
func (m *HTTPMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}
