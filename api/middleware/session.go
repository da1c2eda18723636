package middleware

import (
	"net/http"
	"strings"

	"github.com/codewithtechdev/storefront-backend/api/responses"
	pkgauth "github.com/codewithtechdev/storefront-backend/pkg/auth"
	"github.com/codewithtechdev/storefront-backend/pkg/config"
	pkgerrors "github.com/codewithtechdev/storefront-backend/pkg/errors"
	"github.com/codewithtechdev/storefront-backend/pkg/logger"
)

// Session validates the guest session bearer token and seeds the request
// context with the session id. There are no user accounts; the token only
// scopes the cart and its orders to one browser session.
func Session(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session token"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session token"))
				return
			}

			claims, err := pkgauth.ParseSessionToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid session token"))
				return
			}

			ctx := WithSessionID(r.Context(), claims.SessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, claims.SessionID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
