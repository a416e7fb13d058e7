package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// total requests per endpoint, method and status code
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_requests_total",
			Help: "Total API requests received",
		},
		[]string{"endpoint", "method", "status"},
	)

	// request latency in seconds per endpoint/method
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marketplace_request_duration_seconds",
			Help:    "Histogram of request latencies",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method"},
	)

	// rejected requests, labelled by reason (unauthenticated, forbidden)
	AuthRejectionCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_auth_rejections_total",
			Help: "Total requests rejected by the authorization gate",
		},
		[]string{"reason"},
	)

	// validation failures per resource type
	ValidationFailureCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_validation_failures_total",
			Help: "Total payloads rejected by resource validators",
		},
		[]string{"resource"},
	)

	// booking attempts labelled by outcome (booked, unavailable, error)
	BookingCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_bookings_total",
			Help: "Total ad slot booking attempts",
		},
		[]string{"outcome"},
	)

	// newsletter signup attempts labelled by outcome (accepted, rejected)
	NewsletterCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_newsletter_signups_total",
			Help: "Total newsletter subscription attempts",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestCount,
		RequestLatency,
		AuthRejectionCount,
		ValidationFailureCount,
		BookingCount,
		NewsletterCount,
	)
}
