package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/codewithtechdev/storefront-backend/api/middleware"
	"github.com/codewithtechdev/storefront-backend/api/responses"
	"github.com/codewithtechdev/storefront-backend/api/validators"
	cartsvc "github.com/codewithtechdev/storefront-backend/internal/cart"
	pkgerrors "github.com/codewithtechdev/storefront-backend/pkg/errors"
	"github.com/codewithtechdev/storefront-backend/pkg/logger"
	"github.com/codewithtechdev/storefront-backend/pkg/money"
)

type cartItemResponse struct {
	ProductID      string  `json:"product_id"`
	Name           string  `json:"name"`
	UnitPrice      string  `json:"unit_price"`
	UnitPriceCents int64   `json:"unit_price_cents"`
	Quantity       int     `json:"quantity"`
	ImageURL       *string `json:"image_url,omitempty"`
}

type cartResponse struct {
	SessionID     string             `json:"session_id"`
	Items         []cartItemResponse `json:"items"`
	Count         int                `json:"count"`
	Subtotal      string             `json:"subtotal"`
	SubtotalCents int64              `json:"subtotal_cents"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

func newCartResponse(cart *cartsvc.Cart) cartResponse {
	items := make([]cartItemResponse, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = cartItemResponse{
			ProductID:      item.ProductID.String(),
			Name:           item.Name,
			UnitPrice:      money.FormatUSD(item.UnitPriceCents),
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			ImageURL:       item.ImageURL,
		}
	}
	subtotal := cart.Subtotal()
	return cartResponse{
		SessionID:     cart.SessionID.String(),
		Items:         items,
		Count:         cart.Count(),
		Subtotal:      money.FormatUSD(subtotal),
		SubtotalCents: subtotal,
		UpdatedAt:     cart.UpdatedAt,
	}
}

func sessionFromRequest(r *http.Request) (uuid.UUID, error) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session context missing")
	}
	return sessionID, nil
}

// CartFetch returns the session's current cart.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.Get(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(cart))
	}
}

type addItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

// CartAddItem puts one unit of a product into the cart; repeat adds bump
// the quantity.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.Add(r.Context(), sessionID, payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(cart))
	}
}

// Quantity is a pointer so zero survives the presence check; the service
// clamps anything below one instead of rejecting it.
type setQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// CartSetQuantity updates one line's quantity, clamped to a floor of one.
func CartSetQuantity(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.SetQuantity(r.Context(), sessionID, productID, *payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(cart))
	}
}

// CartRemoveItem deletes one line from the cart.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.Remove(r.Context(), sessionID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(cart))
	}
}

// CartClear drops the whole cart.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Clear(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
