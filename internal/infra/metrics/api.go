package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "client_api_requests_total",
			Help: "API calls issued by the client, per endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	apiLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "client_api_latency_ms",
			Help:    "API call latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		},
		[]string{"endpoint"},
	)
)

func init() {
	register(apiRequests, apiLatencyMs)
}

// ObserveAPIRequest records one round trip. outcome is "ok", "error" or
// "unauthorized".
func ObserveAPIRequest(endpoint, outcome string, elapsed time.Duration) {
	apiRequests.WithLabelValues(endpoint, outcome).Inc()
	apiLatencyMs.WithLabelValues(endpoint).Observe(float64(elapsed.Milliseconds()))
}
