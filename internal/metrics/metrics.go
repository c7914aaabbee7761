// Package metrics exposes extraction and upload counters for Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/JonMunkholm/jaarrekening/internal/extract"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "jaarrekening"

// Metrics holds the collectors for one registry.
type Metrics struct {
	registry *prometheus.Registry

	documents      *prometheus.CounterVec
	fieldsFound    prometheus.Histogram
	warnings       prometheus.Counter
	strategyHits   *prometheus.CounterVec
	conflicts      *prometheus.CounterVec
	ingestDuration prometheus.Histogram
	rejected       *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
}

// New registers all collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_processed_total",
			Help:      "Documents extracted, by resulting data quality.",
		}, []string{"quality"}),
		fieldsFound: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fields_populated",
			Help:      "Number of populated fields per extracted document.",
			Buckets:   prometheus.LinearBuckets(0, 6, 11),
		}),
		warnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_warnings_total",
			Help:      "Validation warnings attached to extracted records.",
		}),
		strategyHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "strategy_hits_total",
			Help:      "Code rows resolved, by value strategy.",
		}, []string{"strategy"}),
		conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "value_conflicts_total",
			Help:      "Repeated codes for an already populated field, by outcome.",
		}, []string{"outcome"}),
		ingestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_duration_seconds",
			Help:      "Time to decode, extract and store one document.",
			Buckets:   prometheus.DefBuckets,
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_rejected_total",
			Help:      "Uploads rejected before extraction, by reason.",
		}, []string{"reason"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by method and status class.",
		}, []string{"method", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.documents,
		m.fieldsFound,
		m.warnings,
		m.strategyHits,
		m.conflicts,
		m.ingestDuration,
		m.rejected,
		m.httpRequests,
	)
	return m
}

// Registry returns the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// DocumentProcessed records the outcome of one extraction.
func (m *Metrics) DocumentProcessed(rec *extract.YearRecord, stats extract.Stats, elapsed time.Duration) {
	m.documents.WithLabelValues(string(rec.DataQuality)).Inc()
	m.fieldsFound.Observe(float64(len(rec.Populated())))
	m.warnings.Add(float64(len(rec.ValidationWarnings)))
	for name, n := range stats.StrategyHits {
		m.strategyHits.WithLabelValues(name).Add(float64(n))
	}
	m.conflicts.WithLabelValues("replaced").Add(float64(stats.Replaced))
	m.conflicts.WithLabelValues("kept").Add(float64(stats.Kept))
	m.ingestDuration.Observe(elapsed.Seconds())
}

// UploadRejected counts an upload refused before extraction.
func (m *Metrics) UploadRejected(reason string) {
	m.rejected.WithLabelValues(reason).Inc()
}

// HTTPRequest counts one served request.
func (m *Metrics) HTTPRequest(method string, status int) {
	m.httpRequests.WithLabelValues(method, statusClass(status)).Inc()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
