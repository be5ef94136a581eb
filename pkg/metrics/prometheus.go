package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	computations *prometheus.CounterVec
	cacheHits    prometheus.Counter
	cacheMisses  prometheus.Counter
	errorsTotal  *prometheus.CounterVec
	batchTotal   prometheus.Counter
	successRate  prometheus.Gauge
	avgQuality   prometheus.Gauge
	latency      *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		computations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "macrosignal_computations_total",
				Help: "Z-score computations by outcome method",
			},
			[]string{"method"},
		),
		cacheHits: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "macrosignal_cache_hits_total",
				Help: "Result cache hits",
			},
		),
		cacheMisses: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "macrosignal_cache_misses_total",
				Help: "Result cache misses including stale and low-confidence entries",
			},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "macrosignal_errors_total",
				Help: "Errors by kind",
			},
			[]string{"type"},
		),
		batchTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "macrosignal_batch_requests_total",
				Help: "Requests processed by the batch pipeline",
			},
		),
		successRate: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "macrosignal_batch_success_rate",
				Help: "Share of batch requests that produced a Z-score",
			},
		),
		avgQuality: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "macrosignal_batch_average_quality",
				Help: "Average quality across the latest batch results",
			},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "macrosignal_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordComputation records one completed computation and its latency.
func (r *Recorder) RecordComputation(method string, seconds float64) {
	r.computations.WithLabelValues(method).Inc()
	r.latency.WithLabelValues("compute").Observe(seconds)
}

// RecordCacheHit records a served cache entry.
func (r *Recorder) RecordCacheHit() {
	r.cacheHits.Inc()
}

// RecordCacheMiss records a recomputation-triggering lookup.
func (r *Recorder) RecordCacheMiss() {
	r.cacheMisses.Inc()
}

// RecordBatch records aggregate batch statistics.
func (r *Recorder) RecordBatch(total, succeeded int, successRate, avgQuality float64) {
	r.batchTotal.Add(float64(total))
	r.successRate.Set(successRate)
	r.avgQuality.Set(avgQuality)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
