package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	EvaluateLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tradecore",
			Subsystem: "decision",
			Name:      "latency_seconds",
			Help:      "Latency of decision endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	EvaluateErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tradecore",
			Subsystem: "decision",
			Name:      "errors_total",
			Help:      "Errors by decision endpoint",
		},
		[]string{"endpoint"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(EvaluateLatency, EvaluateErrors)
	})
}
