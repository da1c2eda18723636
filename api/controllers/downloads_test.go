package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/codewithtechdev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/codewithtechdev/storefront-backend/pkg/errors"
)

type stubDownloadService struct {
	grant  *models.DownloadGrant
	grants []models.DownloadGrant
	err    error

	resolvedToken string
}

func (s *stubDownloadService) EnsureGrants(ctx context.Context, order *models.Order) ([]models.DownloadGrant, error) {
	return s.grants, s.err
}

func (s *stubDownloadService) ListByOrder(ctx context.Context, order *models.Order) ([]models.DownloadGrant, error) {
	return s.grants, s.err
}

func (s *stubDownloadService) Resolve(ctx context.Context, token string) (*models.DownloadGrant, error) {
	s.resolvedToken = token
	return s.grant, s.err
}

func TestDownloadResolveRedirects(t *testing.T) {
	svc := &stubDownloadService{
		grant: &models.DownloadGrant{
			ID:          uuid.New(),
			ProductID:   uuid.New(),
			Token:       "dl_abc123",
			DownloadURL: "https://files.example.com/kit.zip?token=dl_abc123",
			ExpiresAt:   time.Now().Add(time.Hour),
		},
	}
	handler := DownloadResolve(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/downloads?token=dl_abc123", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302 got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != svc.grant.DownloadURL {
		t.Fatalf("unexpected redirect target %q", got)
	}
	if svc.resolvedToken != "dl_abc123" {
		t.Fatalf("expected token to reach the service, got %q", svc.resolvedToken)
	}
}

func TestDownloadResolveRejectsBadToken(t *testing.T) {
	svc := &stubDownloadService{err: pkgerrors.New(pkgerrors.CodeNotFound, "download link not found")}
	handler := DownloadResolve(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/downloads?token=dl_nope", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}
