package enums

import "testing"

func TestOrderStatusTransitions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusCompleted, true},
		{OrderStatusPending, OrderStatusFailed, true},
		{OrderStatusCompleted, OrderStatusFailed, false},
		{OrderStatusCompleted, OrderStatusPending, false},
		{OrderStatusFailed, OrderStatusCompleted, false},
		{OrderStatusFailed, OrderStatusPending, false},
		{OrderStatusPending, OrderStatusPending, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Fatalf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	t.Parallel()

	if OrderStatusPending.IsTerminal() {
		t.Fatal("pending must not be terminal")
	}
	if !OrderStatusCompleted.IsTerminal() {
		t.Fatal("completed must be terminal")
	}
	if !OrderStatusFailed.IsTerminal() {
		t.Fatal("failed must be terminal")
	}
}

func TestOrderStatusIsValid(t *testing.T) {
	t.Parallel()

	for _, status := range []OrderStatus{OrderStatusPending, OrderStatusCompleted, OrderStatusFailed} {
		if !status.IsValid() {
			t.Fatalf("%s should be valid", status)
		}
	}
	if OrderStatus("shipped").IsValid() {
		t.Fatal("unknown status should be invalid")
	}
}
