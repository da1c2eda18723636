package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	pkgauth "github.com/codewithtechdev/storefront-backend/pkg/auth"
	"github.com/codewithtechdev/storefront-backend/pkg/config"
	"github.com/codewithtechdev/storefront-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

func newTestRouter() http.Handler {
	cfg := &config.Config{
		App: config.AppConfig{Env: "test"},
		JWT: config.JWTConfig{
			Secret:            "test-secret",
			Issuer:            "storefront-test",
			ExpirationMinutes: 60,
		},
	}
	logg := logger.New(logger.Options{ServiceName: "storefront-test", Output: io.Discard})

	return NewRouter(Deps{
		Config:      cfg,
		Logger:      logg,
		Registry:    prometheus.NewRegistry(),
		DBPinger:    stubPinger{},
		RedisPinger: stubPinger{},
	})
}

func TestRouterHealthAndMetrics(t *testing.T) {
	router := newTestRouter()

	for _, path := range []string{"/health/live", "/health/ready", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, rec.Code)
		}
	}
}

func TestRouterSessionGuard(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with a bad token got %d", rec.Code)
	}
}

func TestRouterAcceptsMintedToken(t *testing.T) {
	router := newTestRouter()

	jwtCfg := config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "storefront-test",
		ExpirationMinutes: 60,
	}
	token, err := pkgauth.MintSessionToken(jwtCfg, time.Now().UTC(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The cart service is not wired in this harness, so a valid token gets
	// past the session middleware and stops at the handler's nil guard.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 from the nil-service guard got %d", rec.Code)
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}
