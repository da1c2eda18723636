package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/codewithtechdev/storefront-backend/api/responses"
	"github.com/codewithtechdev/storefront-backend/api/validators"
	ordersvc "github.com/codewithtechdev/storefront-backend/internal/orders"
	"github.com/codewithtechdev/storefront-backend/internal/payments"
	"github.com/codewithtechdev/storefront-backend/pkg/db/models"
	"github.com/codewithtechdev/storefront-backend/pkg/enums"
	pkgerrors "github.com/codewithtechdev/storefront-backend/pkg/errors"
	"github.com/codewithtechdev/storefront-backend/pkg/logger"
)

type verifyResponse struct {
	TransactionID string    `json:"transaction_id"`
	Status        string    `json:"status"`
	Verified      bool      `json:"verified"`
	VerifiedAt    time.Time `json:"verified_at"`
}

// PaymentVerify re-checks a transaction's status with the gateway.
func PaymentVerify(gateway payments.Gateway, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if gateway == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment gateway unavailable"))
			return
		}

		transactionID := strings.TrimSpace(chi.URLParam(r, "transactionId"))
		verification, err := gateway.VerifyPayment(r.Context(), transactionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, verifyResponse{
			TransactionID: verification.TransactionID,
			Status:        string(verification.Status),
			Verified:      verification.Verified,
			VerifiedAt:    verification.VerifiedAt,
		})
	}
}

type refundRequest struct {
	OrderID string `json:"order_id" validate:"required,uuid"`
}

type refundResponse struct {
	RefundID      string    `json:"refund_id"`
	TransactionID string    `json:"transaction_id"`
	AmountCents   int64     `json:"amount_cents"`
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
}

// PaymentRefund refunds a completed order's charge in full and records the
// refund against the order's transaction log.
func PaymentRefund(gateway payments.Gateway, orders ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if gateway == nil || orders == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment gateway unavailable"))
			return
		}

		sessionID, err := sessionFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		transactionID := strings.TrimSpace(chi.URLParam(r, "transactionId"))
		if transactionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required"))
			return
		}

		var payload refundRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := validators.ParsePathUUID(payload.OrderID, "order_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := orders.Get(r.Context(), orderID, sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if order.Status != enums.OrderStatusCompleted {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeStateConflict, "only completed orders can be refunded"))
			return
		}
		if order.TransactionID == nil || *order.TransactionID != transactionID {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "transaction does not belong to this order"))
			return
		}

		refund, err := gateway.RefundPayment(r.Context(), transactionID, order.TotalCents)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		refundID := refund.RefundID
		if err := orders.RecordTransaction(r.Context(), &models.PaymentTransaction{
			OrderID:       order.ID,
			TransactionID: &refundID,
			AmountCents:   refund.AmountCents,
			Currency:      order.Currency,
			Status:        enums.PaymentStatusRefunded,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, refundResponse{
			RefundID:      refund.RefundID,
			TransactionID: refund.TransactionID,
			AmountCents:   refund.AmountCents,
			Status:        string(refund.Status),
			Timestamp:     refund.Timestamp,
		})
	}
}
