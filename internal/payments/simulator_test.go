package payments

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/codewithtechdev/storefront-backend/pkg/config"
	"github.com/codewithtechdev/storefront-backend/pkg/enums"
	pkgerrors "github.com/codewithtechdev/storefront-backend/pkg/errors"
	"github.com/codewithtechdev/storefront-backend/pkg/logger"
	"github.com/google/uuid"
)

func testPaymentsConfig() config.PaymentsConfig {
	return config.PaymentsConfig{
		MerchantID:    "255781290131",
		BaseURL:       "https://api.verifone.test",
		ReturnBaseURL: "https://shop.test",
		Currency:      "USD",
		SuccessRate:   0.90,
	}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestSimulator(t *testing.T, opts ...Option) *Simulator {
	t.Helper()
	opts = append([]Option{WithoutDelay()}, opts...)
	sim, err := NewSimulator(testPaymentsConfig(), testLogger(), opts...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return sim
}

func TestNewSimulatorValidatesConfig(t *testing.T) {
	t.Parallel()

	if _, err := NewSimulator(testPaymentsConfig(), nil); err == nil {
		t.Fatal("expected error for nil logger")
	}

	cfg := testPaymentsConfig()
	cfg.MerchantID = " "
	if _, err := NewSimulator(cfg, testLogger()); err == nil {
		t.Fatal("expected error for blank merchant id")
	}

	cfg = testPaymentsConfig()
	cfg.SuccessRate = 1.5
	if _, err := NewSimulator(cfg, testLogger()); err == nil {
		t.Fatal("expected error for out-of-range success rate")
	}

	cfg = testPaymentsConfig()
	cfg.Currency = "EUR"
	if _, err := NewSimulator(cfg, testLogger()); err == nil {
		t.Fatal("expected error for unsupported currency")
	}
}

func TestCreateSessionIssuesHandles(t *testing.T) {
	t.Parallel()

	sim := newTestSimulator(t)
	session, err := sim.CreateSession(context.Background(), SessionInput{
		AmountCents: 10998,
		Currency:    enums.CurrencyUSD,
		OrderID:     uuid.New(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(session.SessionID, "sess_") {
		t.Fatalf("unexpected session id %s", session.SessionID)
	}
	if !strings.HasPrefix(session.TransactionID, "txn_") {
		t.Fatalf("unexpected transaction id %s", session.TransactionID)
	}
	if session.PaymentURL == "" {
		t.Fatal("expected payment url")
	}
	if session.ReturnURL != "https://shop.test/success" {
		t.Fatalf("unexpected return url %s", session.ReturnURL)
	}
	if session.CancelURL != "https://shop.test/cart" {
		t.Fatalf("unexpected cancel url %s", session.CancelURL)
	}
}

func TestProcessPaymentApproved(t *testing.T) {
	t.Parallel()

	sim := newTestSimulator(t, WithOutcome(Approve))
	result, err := sim.ProcessPayment(context.Background(), ProcessInput{AmountCents: 10998, OrderID: uuid.New()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Success {
		t.Fatal("expected approved result")
	}
	if !strings.HasPrefix(result.TransactionID, "TXN_") {
		t.Fatalf("unexpected transaction id %s", result.TransactionID)
	}
	if result.TransactionID != strings.ToUpper(result.TransactionID) {
		t.Fatal("expected uppercase transaction id")
	}
	if result.Error != "" {
		t.Fatalf("approved result must not carry an error, got %q", result.Error)
	}
	if result.Status != enums.PaymentStatusCompleted {
		t.Fatalf("unexpected status %s", result.Status)
	}
}

func TestProcessPaymentDeclinedIsNotAnError(t *testing.T) {
	t.Parallel()

	sim := newTestSimulator(t, WithOutcome(Decline))
	result, err := sim.ProcessPayment(context.Background(), ProcessInput{AmountCents: 10998, OrderID: uuid.New()})
	if err != nil {
		t.Fatalf("decline must return nil error, got %v", err)
	}

	if result.Success {
		t.Fatal("expected declined result")
	}
	if result.TransactionID != "" {
		t.Fatalf("declined result must not carry a transaction id, got %q", result.TransactionID)
	}
	if result.Error != "Payment declined by bank" {
		t.Fatalf("unexpected decline reason %q", result.Error)
	}
	if result.Status != enums.PaymentStatusFailed {
		t.Fatalf("unexpected status %s", result.Status)
	}
}

func TestProcessPaymentHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	cfg := testPaymentsConfig()
	cfg.ProcessDelay = time.Minute
	sim, err := NewSimulator(cfg, testLogger(), WithOutcome(Approve))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = sim.ProcessPayment(ctx, ProcessInput{AmountCents: 100, OrderID: uuid.New()})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error on timeout, got %v", err)
	}
}

func TestProcessPaymentRejectsNegativeAmount(t *testing.T) {
	t.Parallel()

	sim := newTestSimulator(t, WithOutcome(Approve))
	_, err := sim.ProcessPayment(context.Background(), ProcessInput{AmountCents: -1, OrderID: uuid.New()})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestVerifyPayment(t *testing.T) {
	t.Parallel()

	sim := newTestSimulator(t)
	verification, err := sim.VerifyPayment(context.Background(), "TXN_ABC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !verification.Verified || verification.TransactionID != "TXN_ABC" {
		t.Fatalf("unexpected verification: %+v", verification)
	}

	if _, err := sim.VerifyPayment(context.Background(), " "); err == nil {
		t.Fatal("expected error for blank transaction id")
	}
}

func TestRefundPayment(t *testing.T) {
	t.Parallel()

	sim := newTestSimulator(t)
	refund, err := sim.RefundPayment(context.Background(), "TXN_ABC", 10998)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(refund.RefundID, "REF_") {
		t.Fatalf("unexpected refund id %s", refund.RefundID)
	}
	if refund.Status != enums.PaymentStatusRefunded {
		t.Fatalf("unexpected status %s", refund.Status)
	}
	if refund.AmountCents != 10998 {
		t.Fatalf("unexpected amount %d", refund.AmountCents)
	}
}

func TestProbabilisticOutcomeExtremes(t *testing.T) {
	t.Parallel()

	always := probabilisticOutcome(1.0)
	for i := 0; i < 50; i++ {
		if !always().Approved {
			t.Fatal("success rate 1.0 must always approve")
		}
	}

	never := probabilisticOutcome(0.0)
	for i := 0; i < 50; i++ {
		if never().Approved {
			t.Fatal("success rate 0.0 must never approve")
		}
	}
}
