package payments

import (
	"context"
	"time"

	"github.com/codewithtechdev/storefront-backend/pkg/enums"
	"github.com/codewithtechdev/storefront-backend/pkg/types"
	"github.com/google/uuid"
)

// Gateway is the boundary to the payment processor. The simulator stands in
// for the real thing; the orchestrator only ever sees this surface.
type Gateway interface {
	CreateSession(ctx context.Context, input SessionInput) (*Session, error)
	ProcessPayment(ctx context.Context, input ProcessInput) (*Result, error)
	VerifyPayment(ctx context.Context, transactionID string) (*Verification, error)
	RefundPayment(ctx context.Context, transactionID string, amountCents int64) (*Refund, error)
}

// SessionInput carries the hosted-session request. Amounts are already in
// minor currency units when they reach the gateway.
type SessionInput struct {
	AmountCents   int64
	Currency      enums.Currency
	OrderID       uuid.UUID
	CustomerEmail string
}

// Session is the processor's hosted payment session handle. ReturnURL and
// CancelURL point back into the storefront for the hosted-page redirect.
type Session struct {
	SessionID     string
	PaymentURL    string
	TransactionID string
	ReturnURL     string
	CancelURL     string
}

// CardDetails is never logged; the simulator only checks presence.
type CardDetails struct {
	Number      string
	ExpiryMonth int
	ExpiryYear  int
	CVV         string
	HolderName  string
}

// LineItem describes a purchased item for the processor's records.
type LineItem struct {
	ProductID uuid.UUID
	Name      string
	Quantity  int
}

// ProcessInput carries a payment authorization request.
type ProcessInput struct {
	AmountCents int64
	Currency    enums.Currency
	OrderID     uuid.UUID
	Card        CardDetails
	Customer    types.CustomerInfo
	Items       []LineItem
}

// Result is the processing outcome. Exactly one of the success pair
// (Success true, non-empty TransactionID) or the decline pair (Success
// false, non-empty Error) holds; a decline is a normal result, not a Go
// error.
type Result struct {
	Success       bool
	TransactionID string
	AmountCents   int64
	Currency      enums.Currency
	Status        enums.PaymentStatus
	Timestamp     time.Time
	Message       string
	Error         string
}

// Verification is a confirmatory status snapshot for a transaction.
type Verification struct {
	TransactionID string
	Status        enums.PaymentStatus
	Verified      bool
	VerifiedAt    time.Time
}

// Refund reports a processed refund.
type Refund struct {
	RefundID      string
	TransactionID string
	AmountCents   int64
	Status        enums.PaymentStatus
	Timestamp     time.Time
}

// Outcome is the decision an OutcomeFunc produces for one authorization.
type Outcome struct {
	Approved bool
	Reason   string
}

// OutcomeFunc decides whether a simulated authorization is approved. Tests
// inject deterministic implementations to force either branch.
type OutcomeFunc func() Outcome

// Approve always approves.
func Approve() Outcome {
	return Outcome{Approved: true}
}

// Decline always declines with the bank's standard reason.
func Decline() Outcome {
	return Outcome{Reason: "Payment declined by bank"}
}
