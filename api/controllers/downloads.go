package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/codewithtechdev/storefront-backend/api/responses"
	"github.com/codewithtechdev/storefront-backend/api/validators"
	downloadsvc "github.com/codewithtechdev/storefront-backend/internal/downloads"
	ordersvc "github.com/codewithtechdev/storefront-backend/internal/orders"
	"github.com/codewithtechdev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/codewithtechdev/storefront-backend/pkg/errors"
	"github.com/codewithtechdev/storefront-backend/pkg/logger"
)

type downloadResponse struct {
	ProductID   string    `json:"product_id"`
	Token       string    `json:"token"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func newDownloadResponse(grant models.DownloadGrant) downloadResponse {
	return downloadResponse{
		ProductID:   grant.ProductID.String(),
		Token:       grant.Token,
		DownloadURL: grant.DownloadURL,
		ExpiresAt:   grant.ExpiresAt,
	}
}

func newDownloadListResponse(grants []models.DownloadGrant) []downloadResponse {
	if len(grants) == 0 {
		return nil
	}
	out := make([]downloadResponse, len(grants))
	for i, grant := range grants {
		out[i] = newDownloadResponse(grant)
	}
	return out
}

// OrderDownloads lists the live download grants for a completed order owned
// by the requesting session.
func OrderDownloads(orders ordersvc.Service, downloads downloadsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if orders == nil || downloads == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "downloads service unavailable"))
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

		order, err := orders.Get(r.Context(), orderID, sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		grants, err := downloads.ListByOrder(r.Context(), order)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newDownloadListResponse(grants))
	}
}

// DownloadResolve validates a download token and redirects to the file.
// Unknown and expired tokens are rejected without revealing which.
func DownloadResolve(downloads downloadsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if downloads == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "downloads service unavailable"))
			return
		}

		token := r.URL.Query().Get("token")
		grant, err := downloads.Resolve(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.Redirect(w, r, grant.DownloadURL, http.StatusFound)
	}
}
