package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hayasaka/monban/pkg/cache"
)

// PrometheusExporter exports metrics to Prometheus format.
type PrometheusExporter struct {
	decisionCache cache.Cache

	// Prometheus metrics
	validateTotal    *prometheus.CounterVec
	validateDuration prometheus.Histogram
	httpRequests     *prometheus.CounterVec
	httpErrors       *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	cacheHits        prometheus.CounterFunc
	cacheMisses      prometheus.CounterFunc
}

// NewPrometheusExporter creates a new Prometheus exporter.
// decisionCache may be nil when decision caching is disabled.
func NewPrometheusExporter(decisionCache cache.Cache) *PrometheusExporter {
	e := &PrometheusExporter{
		decisionCache: decisionCache,
		validateTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "monban_validate_total",
				Help: "Total number of validation decisions by outcome",
			},
			[]string{"outcome"},
		),
		validateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "monban_validate_duration_seconds",
			Help:    "Duration of validation decisions in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		httpRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "monban_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route"},
		),
		httpErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "monban_http_errors_total",
				Help: "Total number of HTTP requests answered with a 5xx status",
			},
			[]string{"route"},
		),
		httpDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "monban_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}

	if decisionCache != nil {
		e.cacheHits = promauto.NewCounterFunc(prometheus.CounterOpts{
			Name: "monban_decision_cache_hits_total",
			Help: "Total number of decision cache hits",
		}, func() float64 {
			return float64(decisionCache.Metrics().Hits)
		})
		e.cacheMisses = promauto.NewCounterFunc(prometheus.CounterOpts{
			Name: "monban_decision_cache_misses_total",
			Help: "Total number of decision cache misses",
		}, func() float64 {
			return float64(decisionCache.Metrics().Misses)
		})
	}

	return e
}

// RecordValidation records one validation decision.
func (e *PrometheusExporter) RecordValidation(allowed bool, durationSeconds float64) {
	outcome := "deny"
	if allowed {
		outcome = "allow"
	}
	e.validateTotal.WithLabelValues(outcome).Inc()
	e.validateDuration.Observe(durationSeconds)
}

// RecordRequest records an HTTP request.
func (e *PrometheusExporter) RecordRequest(route string) {
	e.httpRequests.WithLabelValues(route).Inc()
}

// RecordError records an HTTP request that failed server-side.
func (e *PrometheusExporter) RecordError(route string) {
	e.httpErrors.WithLabelValues(route).Inc()
}

// RecordDuration records the duration of an HTTP request in seconds.
func (e *PrometheusExporter) RecordDuration(route string, durationSeconds float64) {
	e.httpDuration.WithLabelValues(route).Observe(durationSeconds)
}
