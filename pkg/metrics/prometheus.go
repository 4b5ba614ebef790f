package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	decisions   *prometheus.CounterVec
	alerts      *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	confidence  *prometheus.HistogramVec
	latency     *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		decisions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradecore_decisions_total",
				Help: "Total number of decisions by verdict",
			},
			[]string{"symbol", "verdict"},
		),
		alerts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradecore_alerts_total",
				Help: "Total number of alerts by kind",
			},
			[]string{"symbol", "kind"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradecore_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		confidence: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tradecore_signal_confidence",
				Help:    "Distribution of validation confidence scores",
				Buckets: prometheus.LinearBuckets(0, 0.1, 11),
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tradecore_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordDecision records a decision by verdict.
func (r *Recorder) RecordDecision(symbol, verdict string) {
	r.decisions.WithLabelValues(symbol, verdict).Inc()
}

// RecordAlert records an emitted alert by kind.
func (r *Recorder) RecordAlert(symbol, kind string) {
	r.alerts.WithLabelValues(symbol, kind).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordConfidence records a validation confidence score.
func (r *Recorder) RecordConfidence(symbol string, confidence float64) {
	r.confidence.WithLabelValues(symbol).Observe(confidence)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
