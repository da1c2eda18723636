package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/codewithtechdev/storefront-backend/internal/cart"
	"github.com/codewithtechdev/storefront-backend/internal/downloads"
	"github.com/codewithtechdev/storefront-backend/internal/orders"
	"github.com/codewithtechdev/storefront-backend/internal/payments"
	"github.com/codewithtechdev/storefront-backend/pkg/config"
	"github.com/codewithtechdev/storefront-backend/pkg/db/models"
	"github.com/codewithtechdev/storefront-backend/pkg/enums"
	pkgerrors "github.com/codewithtechdev/storefront-backend/pkg/errors"
	"github.com/codewithtechdev/storefront-backend/pkg/logger"
	"github.com/codewithtechdev/storefront-backend/pkg/metrics"
	"github.com/codewithtechdev/storefront-backend/pkg/money"
	"github.com/codewithtechdev/storefront-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// locker is the slice of the Redis client the orchestrator uses for the
// per-session checkout lock and the current-order pointer.
type locker interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CheckoutLockKey(sessionID string) string
	CurrentOrderKey(sessionID string) string
}

// Input is a checkout submission for the session's current cart.
type Input struct {
	SessionID uuid.UUID
	Customer  types.CustomerInfo
	Card      payments.CardDetails
}

// Result is the checkout outcome. Order is always set once an order exists;
// on a decline it is the failed order and Payment carries the reason, on
// success Downloads holds the minted grants.
type Result struct {
	Order     *models.Order
	Payment   *payments.Result
	Downloads []models.DownloadGrant
}

// Service runs the purchase commitment sequence: snapshot the cart into a
// pending order, charge once, settle the order into its terminal state.
type Service interface {
	Checkout(ctx context.Context, input Input) (*Result, error)
}

type service struct {
	carts     cart.Service
	orders    orders.Service
	gateway   payments.Gateway
	downloads downloads.Service
	locks     locker
	metrics   *metrics.CheckoutMetrics
	logger    *logger.Logger

	taxRate         decimal.Decimal
	lockTTL         time.Duration
	paymentTimeout  time.Duration
	currentOrderTTL time.Duration
	now             func() time.Time
}

// NewService builds the checkout orchestrator.
func NewService(
	cfg config.CheckoutConfig,
	carts cart.Service,
	ordersSvc orders.Service,
	gateway payments.Gateway,
	downloadsSvc downloads.Service,
	locks locker,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if ordersSvc == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if downloadsSvc == nil {
		return nil, fmt.Errorf("downloads service required")
	}
	if locks == nil {
		return nil, fmt.Errorf("lock client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("checkout logger required")
	}

	taxRate, err := decimal.NewFromString(cfg.TaxRate)
	if err != nil {
		return nil, fmt.Errorf("parsing tax rate %q: %w", cfg.TaxRate, err)
	}
	if taxRate.IsNegative() {
		return nil, fmt.Errorf("tax rate must be non-negative, got %s", cfg.TaxRate)
	}
	if cfg.LockTTL <= 0 {
		return nil, fmt.Errorf("checkout lock ttl must be positive")
	}
	if cfg.PaymentTimeout <= 0 {
		return nil, fmt.Errorf("payment timeout must be positive")
	}
	if cfg.CurrentOrderTTL <= 0 {
		return nil, fmt.Errorf("current order ttl must be positive")
	}

	return &service{
		carts:           carts,
		orders:          ordersSvc,
		gateway:         gateway,
		downloads:       downloadsSvc,
		locks:           locks,
		metrics:         checkoutMetrics,
		logger:          logg,
		taxRate:         taxRate,
		lockTTL:         cfg.LockTTL,
		paymentTimeout:  cfg.PaymentTimeout,
		currentOrderTTL: cfg.CurrentOrderTTL,
		now:             time.Now,
	}, nil
}

// Checkout commits the session's cart. One charge per submission: re-entrant
// calls for the same session are rejected while a checkout is in flight. The
// cart survives a decline so the shopper can retry; it is cleared only after
// the order completes.
func (s *service) Checkout(ctx context.Context, input Input) (*Result, error) {
	if input.SessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if missing := input.Customer.MissingFields(); len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer info incomplete").
			WithDetails(map[string]any{"missing": missing})
	}

	sessionID := input.SessionID.String()
	ctx = s.logger.WithSessionID(ctx, sessionID)

	lockKey := s.locks.CheckoutLockKey(sessionID)
	won, err := s.locks.SetNX(ctx, lockKey, s.now().UTC().Format(time.RFC3339Nano), s.lockTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire checkout lock")
	}
	if !won {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a checkout is already in progress for this session")
	}
	defer func() {
		if err := s.locks.Del(context.WithoutCancel(ctx), lockKey); err != nil {
			s.logger.Warn(ctx, "releasing checkout lock failed")
		}
	}()

	current, err := s.carts.Get(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	if current.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	subtotal := current.Subtotal()
	tax := money.ApplyRate(subtotal, s.taxRate)
	total := subtotal + tax

	order, err := s.orders.Create(ctx, orders.CreateOrderInput{
		SessionID:     input.SessionID,
		Items:         snapshotItems(current),
		SubtotalCents: subtotal,
		TaxCents:      tax,
		TotalCents:    total,
		Currency:      enums.CurrencyUSD,
		Customer:      input.Customer,
	})
	if err != nil {
		return nil, err
	}
	ctx = s.logger.WithOrderID(ctx, order.ID.String())
	s.logger.Info(ctx, fmt.Sprintf("order %s created, charging %s", order.Number, money.FormatUSD(total)))

	payment, err := s.charge(ctx, order, input)
	if err != nil {
		s.metrics.IncErrored()
		failed, markErr := s.orders.MarkFailed(ctx, order.ID, "payment service unavailable", nil)
		if markErr != nil {
			s.logger.Error(ctx, "marking order failed after gateway error", markErr)
		} else {
			order = failed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "payment processing failed").
			WithDetails(map[string]any{"order_id": order.ID.String()})
	}

	s.recordTransaction(ctx, order, payment)

	if !payment.Success {
		s.metrics.IncDeclined()
		failed, err := s.orders.MarkFailed(ctx, order.ID, payment.Error, nil)
		if err != nil {
			return nil, err
		}
		s.logger.Warn(ctx, fmt.Sprintf("payment declined: %s", payment.Error))
		return &Result{Order: failed, Payment: payment}, nil
	}

	completed, err := s.orders.MarkCompleted(ctx, order.ID, payment.TransactionID)
	if err != nil {
		return nil, err
	}

	grants, err := s.downloads.EnsureGrants(ctx, completed)
	if err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, input.SessionID); err != nil {
		s.logger.Warn(ctx, "clearing cart after completed order failed")
	}
	if err := s.locks.Set(ctx, s.locks.CurrentOrderKey(sessionID), completed.ID.String(), s.currentOrderTTL); err != nil {
		s.logger.Warn(ctx, "storing current order pointer failed")
	}

	s.metrics.IncCompleted()
	s.logger.Info(ctx, fmt.Sprintf("order %s completed", completed.Number))
	return &Result{Order: completed, Payment: payment, Downloads: grants}, nil
}

// charge runs the gateway call under the payment timeout. A deadline hit
// surfaces as a transport error, never as a decline.
func (s *service) charge(ctx context.Context, order *models.Order, input Input) (*payments.Result, error) {
	chargeCtx, cancel := context.WithTimeout(ctx, s.paymentTimeout)
	defer cancel()

	items := make([]payments.LineItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, payments.LineItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
		})
	}

	start := s.now()
	result, err := s.gateway.ProcessPayment(chargeCtx, payments.ProcessInput{
		AmountCents: order.TotalCents,
		Currency:    order.Currency,
		OrderID:     order.ID,
		Card:        input.Card,
		Customer:    input.Customer,
		Items:       items,
	})
	s.metrics.ObservePaymentDuration(s.now().Sub(start))
	return result, err
}

// recordTransaction writes the gateway outcome to the transaction log.
// Failures here are logged, not surfaced, so the order still settles.
func (s *service) recordTransaction(ctx context.Context, order *models.Order, payment *payments.Result) {
	txn := &models.PaymentTransaction{
		OrderID:     order.ID,
		AmountCents: payment.AmountCents,
		Currency:    payment.Currency,
		Status:      payment.Status,
	}
	if payment.TransactionID != "" {
		id := payment.TransactionID
		txn.TransactionID = &id
	}
	if payment.Error != "" {
		reason := payment.Error
		txn.ErrorMessage = &reason
	}
	if err := s.orders.RecordTransaction(ctx, txn); err != nil {
		s.logger.Error(ctx, "recording payment transaction failed", err)
	}
}

func snapshotItems(c *cart.Cart) []orders.SnapshotItem {
	items := make([]orders.SnapshotItem, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, orders.SnapshotItem{
			ProductID:      item.ProductID,
			Name:           item.Name,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			ImageURL:       item.ImageURL,
			FileURL:        item.FileURL,
		})
	}
	return items
}
