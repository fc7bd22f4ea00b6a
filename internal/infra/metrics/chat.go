package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	sendOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_send_total",
			Help: "Message send attempts per outcome (ok|rejected|failed).",
		},
		[]string{"outcome"},
	)

	sendLatencyMs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chat_send_latency_ms",
			Help:    "Full send round trip latency (dispatch to reconcile) in milliseconds.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		},
	)
)

func init() {
	register(sendOutcomes, sendLatencyMs)
}

func IncSend(outcome string) {
	sendOutcomes.WithLabelValues(outcome).Inc()
}

func ObserveSendLatency(elapsed time.Duration) {
	sendLatencyMs.Observe(float64(elapsed.Milliseconds()))
}
