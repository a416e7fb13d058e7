package observability

import "time"

// MetricsRegistry provides an interface for recording application metrics.
// Handlers depend on this instead of global Prometheus state so tests can
// inject a no-op.
type MetricsRegistry interface {
	IncrementRequests(endpoint, method, status string)
	RecordRequestLatency(endpoint, method string, duration time.Duration)

	IncrementAuthRejections(reason string)
	IncrementValidationFailures(resource string)
	IncrementBookings(outcome string)
	IncrementNewsletterSignups(outcome string)
}

// PrometheusRegistry implements MetricsRegistry on the package-level
// Prometheus collectors.
type PrometheusRegistry struct{}

// NewPrometheusRegistry creates a new PrometheusRegistry.
func NewPrometheusRegistry() *PrometheusRegistry {
	return &PrometheusRegistry{}
}

func (r *PrometheusRegistry) IncrementRequests(endpoint, method, status string) {
	RequestCount.WithLabelValues(endpoint, method, status).Inc()
}

func (r *PrometheusRegistry) RecordRequestLatency(endpoint, method string, duration time.Duration) {
	RequestLatency.WithLabelValues(endpoint, method).Observe(duration.Seconds())
}

func (r *PrometheusRegistry) IncrementAuthRejections(reason string) {
	AuthRejectionCount.WithLabelValues(reason).Inc()
}

func (r *PrometheusRegistry) IncrementValidationFailures(resource string) {
	ValidationFailureCount.WithLabelValues(resource).Inc()
}

func (r *PrometheusRegistry) IncrementBookings(outcome string) {
	BookingCount.WithLabelValues(outcome).Inc()
}

func (r *PrometheusRegistry) IncrementNewsletterSignups(outcome string) {
	NewsletterCount.WithLabelValues(outcome).Inc()
}

// NoOpRegistry implements MetricsRegistry with no-op methods for testing.
type NoOpRegistry struct{}

// NewNoOpRegistry creates a new NoOpRegistry.
func NewNoOpRegistry() *NoOpRegistry {
	return &NoOpRegistry{}
}

func (r *NoOpRegistry) IncrementRequests(endpoint, method, status string)                    {}
func (r *NoOpRegistry) RecordRequestLatency(endpoint, method string, duration time.Duration) {}
func (r *NoOpRegistry) IncrementAuthRejections(reason string)                                {}
func (r *NoOpRegistry) IncrementValidationFailures(resource string)                          {}
func (r *NoOpRegistry) IncrementBookings(outcome string)                                     {}
func (r *NoOpRegistry) IncrementNewsletterSignups(outcome string)                            {}
