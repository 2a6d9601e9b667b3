// Package metrics exposes Prometheus instrumentation for extraction and caching.
//
// All methods are safe on a nil *Metrics, so library callers that do not care
// about metrics pass nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "jsontable"

// Extraction outcomes used as the status label.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusCached  = "cached"
)

// Metrics holds the collectors registered for one loader.
type Metrics struct {
	registry *prometheus.Registry

	// CacheHits counts cache lookups answered from a stored entry.
	CacheHits prometheus.Counter
	// CacheMisses counts lookups that fell through to a fresh load.
	CacheMisses prometheus.Counter
	// CacheEvictions counts entries removed to stay within capacity.
	CacheEvictions prometheus.Counter
	// Extractions counts extract calls by status (success/failure/cached).
	Extractions *prometheus.CounterVec
	// ExtractionDuration tracks end-to-end extract latency in seconds.
	ExtractionDuration prometheus.Histogram
	// RowsExtracted tracks the number of data rows per successful extraction.
	RowsExtracted prometheus.Histogram
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of cache hits",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of cache misses",
		}),
		CacheEvictions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_evictions_total",
			Help:      "Total number of cache entries evicted over capacity",
		}),
		Extractions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "Total number of table extractions",
		}, []string{"status"}),
		ExtractionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_duration_seconds",
			Help:      "Table extraction latency in seconds",
			Buckets: []float64{
				0.001, // cache hits
				0.01,
				0.05,
				0.1,
				0.5,
				1,
				5, // large workbooks
			},
		}),
		RowsExtracted: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rows_extracted",
			Help:      "Data rows returned per extraction",
			Buckets:   prometheus.ExponentialBuckets(1, 10, 7),
		}),
	}
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// CacheHit records a cache hit.
func (m *Metrics) CacheHit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

// CacheMiss records a cache miss.
func (m *Metrics) CacheMiss() {
	if m != nil {
		m.CacheMisses.Inc()
	}
}

// CacheEviction records one evicted entry.
func (m *Metrics) CacheEviction() {
	if m != nil {
		m.CacheEvictions.Inc()
	}
}

// ObserveExtraction records one extract call.
func (m *Metrics) ObserveExtraction(status string, started time.Time, rows int) {
	if m == nil {
		return
	}
	m.Extractions.WithLabelValues(status).Inc()
	m.ExtractionDuration.Observe(time.Since(started).Seconds())
	if status == StatusSuccess {
		m.RowsExtracted.Observe(float64(rows))
	}
}

// WriteTextfile dumps the current values in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
