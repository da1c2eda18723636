package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/codewithtechdev/storefront-backend/api/responses"
	"github.com/codewithtechdev/storefront-backend/pkg/config"
	pkgerrors "github.com/codewithtechdev/storefront-backend/pkg/errors"
	"github.com/codewithtechdev/storefront-backend/pkg/logger"
	"go.uber.org/multierr"
)

const envHeader = "X-Storefront-Env"

// Pinger is the connectivity probe each backing service exposes.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes every backing dependency and aggregates failures so a
// single response names everything that is down.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		var err error
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if pingErr := dep.Ping(r.Context()); pingErr != nil {
				err = multierr.Append(err, fmt.Errorf("%s: %w", name, pingErr))
			}
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "readiness check failed"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
