package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/codewithtechdev/storefront-backend/pkg/db/models"
	"github.com/codewithtechdev/storefront-backend/pkg/enums"
	pkgerrors "github.com/codewithtechdev/storefront-backend/pkg/errors"
	"github.com/codewithtechdev/storefront-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service owns the order lifecycle. Status moves pending -> completed or
// pending -> failed; terminal states never transition again.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	MarkCompleted(ctx context.Context, orderID uuid.UUID, transactionID string) (*models.Order, error)
	MarkFailed(ctx context.Context, orderID uuid.UUID, reason string, transactionID *string) (*models.Order, error)
	Get(ctx context.Context, orderID, sessionID uuid.UUID) (*models.Order, error)
	RecordTransaction(ctx context.Context, txn *models.PaymentTransaction) error
}

// SnapshotItem is one cart line frozen into an order.
type SnapshotItem struct {
	ProductID      uuid.UUID
	Name           string
	UnitPriceCents int64
	Quantity       int
	ImageURL       *string
	FileURL        string
}

// CreateOrderInput captures everything an order snapshot requires.
type CreateOrderInput struct {
	SessionID     uuid.UUID
	Items         []SnapshotItem
	SubtotalCents int64
	TaxCents      int64
	TotalCents    int64
	Currency      enums.Currency
	Customer      types.CustomerInfo
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds the orders service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.SessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	if missing := input.Customer.MissingFields(); len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer info incomplete").
			WithDetails(map[string]any{"missing": missing})
	}
	if input.SubtotalCents < 0 || input.TaxCents < 0 || input.TotalCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order totals must be non-negative")
	}

	currency := input.Currency
	if currency == "" {
		currency = enums.CurrencyUSD
	}

	now := s.now()
	order := &models.Order{
		Number:        fmt.Sprintf("ORD-%d", now.UnixMilli()),
		SessionID:     input.SessionID,
		Status:        enums.OrderStatusPending,
		SubtotalCents: input.SubtotalCents,
		TaxCents:      input.TaxCents,
		TotalCents:    input.TotalCents,
		Currency:      currency,

		CustomerEmail:      input.Customer.Email,
		CustomerFirstName:  input.Customer.FirstName,
		CustomerLastName:   input.Customer.LastName,
		CustomerAddress:    input.Customer.Address,
		CustomerCity:       input.Customer.City,
		CustomerCountry:    input.Customer.Country,
		CustomerPostalCode: input.Customer.PostalCode,
	}

	items := make([]models.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		if item.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be at least 1")
		}
		items = append(items, models.OrderItem{
			ProductID:      item.ProductID,
			Name:           item.Name,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			ImageURL:       copyStringPtr(item.ImageURL),
			FileURL:        item.FileURL,
		})
	}
	order.Items = items

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
	}
	return created, nil
}

func (s *service) MarkCompleted(ctx context.Context, orderID uuid.UUID, transactionID string) (*models.Order, error) {
	if transactionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required")
	}
	return s.transition(ctx, orderID, enums.OrderStatusCompleted, &transactionID, nil)
}

func (s *service) MarkFailed(ctx context.Context, orderID uuid.UUID, reason string, transactionID *string) (*models.Order, error) {
	if reason == "" {
		reason = "payment failed"
	}
	return s.transition(ctx, orderID, enums.OrderStatusFailed, transactionID, &reason)
}

// transition enforces the explicit table; illegal moves are rejected rather
// than silently applied.
func (s *service) transition(ctx context.Context, orderID uuid.UUID, target enums.OrderStatus, transactionID, reason *string) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if !order.Status.CanTransitionTo(target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot transition order from %s to %s", order.Status, target))
	}

	order.Status = target
	if transactionID != nil {
		order.TransactionID = copyStringPtr(transactionID)
	}
	order.FailureReason = copyStringPtr(reason)

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	return order, nil
}

func (s *service) Get(ctx context.Context, orderID, sessionID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil || sessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id and session id are required")
	}

	order, err := s.repo.FindByIDAndSession(ctx, orderID, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) RecordTransaction(ctx context.Context, txn *models.PaymentTransaction) error {
	if txn == nil || txn.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "transaction order id is required")
	}
	if !txn.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment status %q", txn.Status))
	}
	if _, err := s.repo.CreateTransaction(ctx, txn); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist payment transaction")
	}
	return nil
}

func copyStringPtr(src *string) *string {
	if src == nil {
		return nil
	}
	val := *src
	return &val
}
