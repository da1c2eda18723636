package payments

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/codewithtechdev/storefront-backend/pkg/config"
	"github.com/codewithtechdev/storefront-backend/pkg/enums"
	pkgerrors "github.com/codewithtechdev/storefront-backend/pkg/errors"
	"github.com/codewithtechdev/storefront-backend/pkg/logger"
)

var errLoggerRequired = errors.New("payments logger is required")

// Simulator mimics the external processor: session creation, authorization,
// verification, refund. Artificial delays stand in for network latency and
// respect context cancellation so a checkout timeout lands as a transport
// error, never a hang.
type Simulator struct {
	merchantID    string
	baseURL       string
	returnBaseURL string
	currency      enums.Currency
	outcome       OutcomeFunc

	sessionDelay time.Duration
	processDelay time.Duration
	verifyDelay  time.Duration
	refundDelay  time.Duration

	logger *logger.Logger
	now    func() time.Time
}

// Option tweaks simulator behavior; tests use these to force outcomes and
// drop delays.
type Option func(*Simulator)

// WithOutcome replaces the probabilistic authorization decision.
func WithOutcome(fn OutcomeFunc) Option {
	return func(s *Simulator) {
		if fn != nil {
			s.outcome = fn
		}
	}
}

// WithoutDelay removes the artificial latency.
func WithoutDelay() Option {
	return func(s *Simulator) {
		s.sessionDelay = 0
		s.processDelay = 0
		s.verifyDelay = 0
		s.refundDelay = 0
	}
}

// WithClock replaces the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Simulator) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSimulator initializes the gateway simulator from configuration.
func NewSimulator(cfg config.PaymentsConfig, logg *logger.Logger, opts ...Option) (*Simulator, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	if strings.TrimSpace(cfg.MerchantID) == "" {
		return nil, errors.New("payments merchant id is required")
	}
	currency := enums.Currency(cfg.Currency)
	if !currency.IsValid() {
		return nil, fmt.Errorf("unsupported payments currency %q", cfg.Currency)
	}
	rate := cfg.SuccessRate
	if rate < 0 || rate > 1 {
		return nil, fmt.Errorf("payments success rate must be within [0,1], got %v", rate)
	}

	s := &Simulator{
		merchantID:    cfg.MerchantID,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		returnBaseURL: strings.TrimRight(cfg.ReturnBaseURL, "/"),
		currency:      currency,
		outcome:       probabilisticOutcome(rate),
		sessionDelay:  cfg.SessionDelay,
		processDelay:  cfg.ProcessDelay,
		verifyDelay:   cfg.VerifyDelay,
		refundDelay:   cfg.RefundDelay,
		logger:        logg,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateSession always succeeds in simulation.
func (s *Simulator) CreateSession(ctx context.Context, input SessionInput) (*Session, error) {
	if input.AmountCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be non-negative")
	}

	s.log(ctx, "request", "create_session", map[string]any{
		"order_id": input.OrderID,
		"amount":   input.AmountCents,
		"currency": input.Currency,
		"email":    input.CustomerEmail,
	})

	if err := s.sleep(ctx, s.sessionDelay); err != nil {
		return nil, err
	}

	session := &Session{
		SessionID:     "sess_" + randomToken(9),
		PaymentURL:    fmt.Sprintf("%s/pay/%s", s.baseURL, s.merchantID),
		TransactionID: "txn_" + randomToken(9),
	}
	if s.returnBaseURL != "" {
		session.ReturnURL = s.returnBaseURL + "/success"
		session.CancelURL = s.returnBaseURL + "/cart"
	}
	s.log(ctx, "response", "create_session", map[string]any{"session_id": session.SessionID})
	return session, nil
}

// ProcessPayment returns exactly one of success-with-transaction-id or
// decline-with-reason. Declines come back with a nil error.
func (s *Simulator) ProcessPayment(ctx context.Context, input ProcessInput) (*Result, error) {
	if input.AmountCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be non-negative")
	}

	s.log(ctx, "request", "process_payment", map[string]any{
		"order_id": input.OrderID,
		"amount":   input.AmountCents,
		"items":    len(input.Items),
		"card":     input.Card.Number,
	})

	if err := s.sleep(ctx, s.processDelay); err != nil {
		return nil, err
	}

	currency := input.Currency
	if currency == "" {
		currency = s.currency
	}

	outcome := s.outcome()
	if !outcome.Approved {
		reason := outcome.Reason
		if reason == "" {
			reason = "Payment declined"
		}
		s.log(ctx, "response", "process_payment", map[string]any{"status": enums.PaymentStatusFailed})
		return &Result{
			Success:     false,
			AmountCents: input.AmountCents,
			Currency:    currency,
			Status:      enums.PaymentStatusFailed,
			Timestamp:   s.now().UTC(),
			Error:       reason,
		}, nil
	}

	result := &Result{
		Success:       true,
		TransactionID: "TXN_" + strings.ToUpper(randomToken(9)),
		AmountCents:   input.AmountCents,
		Currency:      currency,
		Status:        enums.PaymentStatusCompleted,
		Timestamp:     s.now().UTC(),
		Message:       "Payment processed successfully",
	}
	s.log(ctx, "response", "process_payment", map[string]any{
		"transaction_id": result.TransactionID,
		"status":         result.Status,
	})
	return result, nil
}

// VerifyPayment returns a confirmatory snapshot; failures here are
// exceptional, unlike declines.
func (s *Simulator) VerifyPayment(ctx context.Context, transactionID string) (*Verification, error) {
	if strings.TrimSpace(transactionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required")
	}

	s.log(ctx, "request", "verify_payment", map[string]any{"transaction_id": transactionID})

	if err := s.sleep(ctx, s.verifyDelay); err != nil {
		return nil, err
	}

	return &Verification{
		TransactionID: transactionID,
		Status:        enums.PaymentStatusCompleted,
		Verified:      true,
		VerifiedAt:    s.now().UTC(),
	}, nil
}

// RefundPayment simulates a refund for the given amount.
func (s *Simulator) RefundPayment(ctx context.Context, transactionID string, amountCents int64) (*Refund, error) {
	if strings.TrimSpace(transactionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required")
	}
	if amountCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be non-negative")
	}

	s.log(ctx, "request", "refund_payment", map[string]any{
		"transaction_id": transactionID,
		"amount":         amountCents,
	})

	if err := s.sleep(ctx, s.refundDelay); err != nil {
		return nil, err
	}

	return &Refund{
		RefundID:      "REF_" + strings.ToUpper(randomToken(9)),
		TransactionID: transactionID,
		AmountCents:   amountCents,
		Status:        enums.PaymentStatusRefunded,
		Timestamp:     s.now().UTC(),
	}, nil
}

// sleep waits out the artificial latency unless the context ends first, in
// which case the caller sees a dependency error distinct from a decline.
func (s *Simulator) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		if err := ctx.Err(); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "payment gateway unreachable")
		}
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return pkgerrors.Wrap(pkgerrors.CodeDependency, ctx.Err(), "payment gateway unreachable")
	}
}

func (s *Simulator) log(ctx context.Context, phase, op string, fields map[string]any) {
	if s == nil || s.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = redact(k, v)
	}
	ctx = s.logger.WithFields(ctx, logFields)
	s.logger.Info(ctx, fmt.Sprintf("gateway %s", phase))
}

func redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"card", "cvv", "cvc", "token", "secret", "email"} {
		if strings.Contains(lower, sensitive) {
			return "[REDACTED]"
		}
	}
	return value
}

// probabilisticOutcome approves with the configured probability using
// crypto/rand so outcomes are not seed-predictable.
func probabilisticOutcome(successRate float64) OutcomeFunc {
	return func() Outcome {
		const precision = 1_000_000
		n, err := rand.Int(rand.Reader, big.NewInt(precision))
		if err != nil {
			return Outcome{Approved: true}
		}
		if float64(n.Int64()) < successRate*precision {
			return Outcome{Approved: true}
		}
		return Decline()
	}
}

func randomToken(bytes int) string {
	buf := make([]byte, bytes)
	if _, err := rand.Read(buf); err != nil {
		return hex.EncodeToString([]byte(time.Now().UTC().Format(time.RFC3339Nano)))[:bytes*2]
	}
	return hex.EncodeToString(buf)[:bytes*2]
}
