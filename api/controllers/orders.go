package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/codewithtechdev/storefront-backend/api/responses"
	"github.com/codewithtechdev/storefront-backend/api/validators"
	ordersvc "github.com/codewithtechdev/storefront-backend/internal/orders"
	"github.com/codewithtechdev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/codewithtechdev/storefront-backend/pkg/errors"
	"github.com/codewithtechdev/storefront-backend/pkg/logger"
	"github.com/codewithtechdev/storefront-backend/pkg/money"
	pkgredis "github.com/codewithtechdev/storefront-backend/pkg/redis"
)

type orderItemResponse struct {
	ProductID      string  `json:"product_id"`
	Name           string  `json:"name"`
	UnitPrice      string  `json:"unit_price"`
	UnitPriceCents int64   `json:"unit_price_cents"`
	Quantity       int     `json:"quantity"`
	ImageURL       *string `json:"image_url,omitempty"`
}

type orderResponse struct {
	ID            string              `json:"id"`
	Number        string              `json:"number"`
	Status        string              `json:"status"`
	Subtotal      string              `json:"subtotal"`
	SubtotalCents int64               `json:"subtotal_cents"`
	Tax           string              `json:"tax"`
	TaxCents      int64               `json:"tax_cents"`
	Total         string              `json:"total"`
	TotalCents    int64               `json:"total_cents"`
	Currency      string              `json:"currency"`
	TransactionID *string             `json:"transaction_id,omitempty"`
	FailureReason *string             `json:"failure_reason,omitempty"`
	CustomerEmail string              `json:"customer_email"`
	Items         []orderItemResponse `json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
}

func newOrderResponse(order *models.Order) orderResponse {
	items := make([]orderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = orderItemResponse{
			ProductID:      item.ProductID.String(),
			Name:           item.Name,
			UnitPrice:      money.FormatUSD(item.UnitPriceCents),
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			ImageURL:       item.ImageURL,
		}
	}
	return orderResponse{
		ID:            order.ID.String(),
		Number:        order.Number,
		Status:        string(order.Status),
		Subtotal:      money.FormatUSD(order.SubtotalCents),
		SubtotalCents: order.SubtotalCents,
		Tax:           money.FormatUSD(order.TaxCents),
		TaxCents:      order.TaxCents,
		Total:         money.FormatUSD(order.TotalCents),
		TotalCents:    order.TotalCents,
		Currency:      string(order.Currency),
		TransactionID: order.TransactionID,
		FailureReason: order.FailureReason,
		CustomerEmail: order.CustomerEmail,
		Items:         items,
		CreatedAt:     order.CreatedAt,
	}
}

// OrderPointer is the slice of the Redis client holding the session's
// current-order pointer written when a checkout completes.
type OrderPointer interface {
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CurrentOrderKey(sessionID string) string
}

// OrderDetail returns one order scoped to the requesting session.
func OrderDetail(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		sessionID, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), orderID, sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

// OrderCurrent resolves the session's current-order pointer and returns that
// order. The pointer exists only for a while after a completed checkout.
func OrderCurrent(svc ordersvc.Service, pointers OrderPointer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || pointers == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		sessionID, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		raw, err := pointers.Get(r.Context(), pointers.CurrentOrderKey(sessionID.String()))
		if err != nil {
			if errors.Is(err, pkgredis.Nil) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no current order for this session"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading current order pointer"))
			return
		}

		orderID, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "corrupt current order pointer"))
			return
		}

		order, err := svc.Get(r.Context(), orderID, sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

// OrderClearCurrent drops the session's current-order pointer. The order rows
// and any issued download grants survive.
func OrderClearCurrent(pointers OrderPointer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if pointers == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		sessionID, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := pointers.Del(r.Context(), pointers.CurrentOrderKey(sessionID.String())); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing current order pointer"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
