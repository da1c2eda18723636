package controllers

import (
	"net/http"
	"time"

	"github.com/codewithtechdev/storefront-backend/api/responses"
	pkgauth "github.com/codewithtechdev/storefront-backend/pkg/auth"
	"github.com/codewithtechdev/storefront-backend/pkg/config"
	pkgerrors "github.com/codewithtechdev/storefront-backend/pkg/errors"
	"github.com/codewithtechdev/storefront-backend/pkg/logger"
	"github.com/google/uuid"
)

type sessionResponse struct {
	SessionID string    `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionCreate issues a fresh guest session token. The storefront calls
// this once per browser and sends the token on every cart and checkout
// request.
func SessionCreate(cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := uuid.New()
		now := time.Now().UTC()

		token, err := pkgauth.MintSessionToken(cfg, now, sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token"))
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, sessionResponse{
			SessionID: sessionID.String(),
			Token:     token,
			ExpiresAt: now.Add(cfg.SessionTTL()),
		})
	}
}
