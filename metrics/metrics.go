// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records the server's operational metrics.
type Collector struct {
	httpStatus     *prometheus.CounterVec
	requestLatency prometheus.Histogram
	authOutcomes   *prometheus.CounterVec
	uploads        prometheus.Counter
	applications   prometheus.Counter
}

// NewCollector registers the metric set on the given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kinderwork_http_status_total",
			Help: "Responses by HTTP status code.",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kinderwork_request_latency_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		authOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kinderwork_auth_outcomes_total",
			Help: "Sign-in and sign-up attempts by outcome.",
		}, []string{"operation", "outcome"}),
		uploads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kinderwork_uploads_total",
			Help: "Files stored in object storage.",
		}),
		applications: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kinderwork_applications_total",
			Help: "Applications submitted.",
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.authOutcomes,
		c.uploads,
		c.applications,
	)

	return c
}

// RecordHTTPStatus counts one response by status code.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency observes one request duration.
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordAuthOutcome counts one sign-in or sign-up attempt.
func (c *Collector) RecordAuthOutcome(operation, outcome string) {
	c.authOutcomes.WithLabelValues(operation, outcome).Inc()
}

// RecordUpload counts one stored file.
func (c *Collector) RecordUpload() {
	c.uploads.Inc()
}

// RecordApplication counts one submitted application.
func (c *Collector) RecordApplication() {
	c.applications.Inc()
}

// Handler returns the Prometheus scrape handler.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
