package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestCheckoutMetricsCounters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewCheckoutMetrics(reg)

	m.IncCompleted()
	m.IncCompleted()
	m.IncDeclined()
	m.IncErrored()
	m.ObservePaymentDuration(1500 * time.Millisecond)

	if got := counterValue(t, m.completed); got != 2 {
		t.Fatalf("completed = %v, want 2", got)
	}
	if got := counterValue(t, m.declined); got != 1 {
		t.Fatalf("declined = %v, want 1", got)
	}
	if got := counterValue(t, m.errored); got != 1 {
		t.Fatalf("errored = %v, want 1", got)
	}

	var hist dto.Metric
	if err := m.paymentDuration.Write(&hist); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hist.GetHistogram().GetSampleCount() != 1 {
		t.Fatalf("expected one duration sample, got %d", hist.GetHistogram().GetSampleCount())
	}
}

func TestCheckoutMetricsNilSafe(t *testing.T) {
	t.Parallel()

	var m *CheckoutMetrics
	m.IncCompleted()
	m.IncDeclined()
	m.IncErrored()
	m.ObservePaymentDuration(time.Second)

	empty := NewCheckoutMetrics(nil)
	empty.IncCompleted()
}
