package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for profiling runs.
type Metrics struct {
	RunsTotal           *prometheus.CounterVec
	RunDuration         prometheus.Histogram
	ChunksTotal         prometheus.Counter
	RulesExtractedTotal prometheus.Counter
	RuleConfidence      prometheus.Histogram
	QueueDepth          prometheus.Gauge
	PublishFailures     prometheus.Counter
}

// New returns the process-wide metrics, registering them on first use.
//
// Metrics:
//   - regprofiler_runs_total{status} - runs by final job status
//   - regprofiler_run_duration_seconds - decode through extraction
//   - regprofiler_chunks_total - chunks produced
//   - regprofiler_rules_extracted_total - rules produced
//   - regprofiler_rule_confidence - confidence of each extracted rule
//   - regprofiler_queue_depth - jobs waiting for a worker
//   - regprofiler_publish_failures_total - failed pathstore writes
func New() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			RunsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "regprofiler_runs_total",
					Help: "Total number of profiling runs by final status",
				},
				[]string{"status"}, // "completed", "empty" or "failed"
			),

			RunDuration: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "regprofiler_run_duration_seconds",
					Help:    "Duration of a profiling run in seconds",
					Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
				},
			),

			ChunksTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "regprofiler_chunks_total",
					Help: "Total number of chunks produced",
				},
			),

			RulesExtractedTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "regprofiler_rules_extracted_total",
					Help: "Total number of rules extracted",
				},
			),

			RuleConfidence: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "regprofiler_rule_confidence",
					Help:    "Confidence score of extracted rules",
					Buckets: prometheus.LinearBuckets(30, 5, 14), // 30..95
				},
			),

			QueueDepth: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "regprofiler_queue_depth",
					Help: "Number of jobs waiting for a worker",
				},
			),

			PublishFailures: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "regprofiler_publish_failures_total",
					Help: "Total number of failed rule set publishes",
				},
			),
		}
	})

	return globalMetrics
}

// RecordRun records a finished run.
func (m *Metrics) RecordRun(status string, durationSeconds float64, chunks int) {
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.Observe(durationSeconds)
	m.ChunksTotal.Add(float64(chunks))
}

// RecordRule records one extracted rule.
func (m *Metrics) RecordRule(confidence int) {
	m.RulesExtractedTotal.Inc()
	m.RuleConfidence.Observe(float64(confidence))
}

// SetQueueDepth updates the queue depth gauge.
func (m *Metrics) SetQueueDepth(n int) {
	m.QueueDepth.Set(float64(n))
}

// RecordPublishFailure records a failed publish.
func (m *Metrics) RecordPublishFailure() {
	m.PublishFailures.Inc()
}
