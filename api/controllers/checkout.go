package controllers

import (
	"net/http"

	"github.com/codewithtechdev/storefront-backend/api/responses"
	"github.com/codewithtechdev/storefront-backend/api/validators"
	checkoutsvc "github.com/codewithtechdev/storefront-backend/internal/checkout"
	"github.com/codewithtechdev/storefront-backend/internal/payments"
	pkgerrors "github.com/codewithtechdev/storefront-backend/pkg/errors"
	"github.com/codewithtechdev/storefront-backend/pkg/logger"
	"github.com/codewithtechdev/storefront-backend/pkg/types"
)

type checkoutCardPayload struct {
	Number      string `json:"number" validate:"required,min=12,max=19"`
	ExpiryMonth int    `json:"expiry_month" validate:"required,min=1,max=12"`
	ExpiryYear  int    `json:"expiry_year" validate:"required,min=2024"`
	CVV         string `json:"cvv" validate:"required,min=3,max=4"`
	HolderName  string `json:"holder_name" validate:"required"`
}

type checkoutRequest struct {
	Customer types.CustomerInfo  `json:"customer" validate:"required"`
	Card     checkoutCardPayload `json:"card" validate:"required"`
}

type checkoutResponse struct {
	Order     orderResponse      `json:"order"`
	Declined  bool               `json:"declined"`
	Reason    string             `json:"reason,omitempty"`
	Downloads []downloadResponse `json:"downloads,omitempty"`
}

// Checkout commits the session's cart: snapshot, single charge, terminal
// order state. A gateway decline is a 402 with the failed order attached;
// the shopper's cart is left intact for a retry.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		sessionID, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Checkout(r.Context(), checkoutsvc.Input{
			SessionID: sessionID,
			Customer:  payload.Customer,
			Card: payments.CardDetails{
				Number:      payload.Card.Number,
				ExpiryMonth: payload.Card.ExpiryMonth,
				ExpiryYear:  payload.Card.ExpiryYear,
				CVV:         payload.Card.CVV,
				HolderName:  payload.Card.HolderName,
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := checkoutResponse{
			Order:     newOrderResponse(result.Order),
			Downloads: newDownloadListResponse(result.Downloads),
		}
		if result.Payment != nil && !result.Payment.Success {
			out.Declined = true
			out.Reason = result.Payment.Error
			responses.WriteSuccessStatus(w, http.StatusPaymentRequired, out)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, out)
	}
}
