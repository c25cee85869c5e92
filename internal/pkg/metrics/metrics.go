package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// HoldingsRequestsTotal counts resolved holdings requests by outcome.
	HoldingsRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "holdings_requests_total",
			Help: "Total number of holdings resolution requests by outcome.",
		},
		[]string{"outcome"},
	)

	// HoldingsRequestDuration observes end-to-end resolution latency.
	HoldingsRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "holdings_request_duration_seconds",
			Help:    "End-to-end holdings resolution latency.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)

	// UpstreamFailuresTotal counts failed upstream provider calls.
	UpstreamFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_failures_total",
			Help: "Total number of failed upstream provider calls.",
		},
		[]string{"provider"},
	)
)

// MustRegisterMetrics registers all collectors with the default registry.
func MustRegisterMetrics() {
	prometheus.MustRegister(
		HoldingsRequestsTotal,
		HoldingsRequestDuration,
		UpstreamFailuresTotal,
	)
}
