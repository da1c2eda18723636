package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records payment outcomes and latency for the checkout path.
type CheckoutMetrics struct {
	paymentDuration prometheus.Histogram
	completed       prometheus.Counter
	declined        prometheus.Counter
	errored         prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_payment_duration_seconds",
		Help:    "Duration of payment gateway calls in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	completed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_completed_total",
		Help: "Checkouts that ended with a completed order.",
	})
	declined := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_declined_total",
		Help: "Checkouts declined by the payment gateway.",
	})
	errored := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_errored_total",
		Help: "Checkouts that failed on a transport or unexpected error.",
	})
	reg.MustRegister(duration, completed, declined, errored)
	return &CheckoutMetrics{
		paymentDuration: duration,
		completed:       completed,
		declined:        declined,
		errored:         errored,
	}
}

// ObservePaymentDuration records how long the gateway call took.
func (c *CheckoutMetrics) ObservePaymentDuration(duration time.Duration) {
	if c == nil || c.paymentDuration == nil {
		return
	}
	c.paymentDuration.Observe(duration.Seconds())
}

// IncCompleted increments the completed checkout counter.
func (c *CheckoutMetrics) IncCompleted() {
	if c == nil || c.completed == nil {
		return
	}
	c.completed.Inc()
}

// IncDeclined increments the declined checkout counter.
func (c *CheckoutMetrics) IncDeclined() {
	if c == nil || c.declined == nil {
		return
	}
	c.declined.Inc()
}

// IncErrored increments the errored checkout counter.
func (c *CheckoutMetrics) IncErrored() {
	if c == nil || c.errored == nil {
		return
	}
	c.errored.Inc()
}
