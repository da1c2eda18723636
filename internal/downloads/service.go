package downloads

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/codewithtechdev/storefront-backend/pkg/config"
	"github.com/codewithtechdev/storefront-backend/pkg/db/models"
	"github.com/codewithtechdev/storefront-backend/pkg/enums"
	pkgerrors "github.com/codewithtechdev/storefront-backend/pkg/errors"
	"github.com/codewithtechdev/storefront-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is the access ledger for purchased files. Grants exist only for
// completed orders; each grant carries an opaque token and a hard expiry.
type Service interface {
	EnsureGrants(ctx context.Context, order *models.Order) ([]models.DownloadGrant, error)
	ListByOrder(ctx context.Context, order *models.Order) ([]models.DownloadGrant, error)
	Resolve(ctx context.Context, token string) (*models.DownloadGrant, error)
}

type service struct {
	repo     Repository
	grantTTL time.Duration
	logger   *logger.Logger
	now      func() time.Time
}

// NewService builds the downloads service.
func NewService(repo Repository, cfg config.DownloadsConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("downloads repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("downloads logger required")
	}
	if cfg.GrantTTL <= 0 {
		return nil, fmt.Errorf("downloads grant ttl must be positive, got %s", cfg.GrantTTL)
	}
	return &service{
		repo:     repo,
		grantTTL: cfg.GrantTTL,
		logger:   logg,
		now:      time.Now,
	}, nil
}

// EnsureGrants mints one grant per order line. The call is idempotent:
// a live grant for a product is kept as-is with its original token and
// expiry, an expired one is replaced with a fresh token.
func (s *service) EnsureGrants(ctx context.Context, order *models.Order) ([]models.DownloadGrant, error) {
	if order == nil || order.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order is required")
	}
	if order.Status != enums.OrderStatusCompleted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("downloads require a completed order, status is %s", order.Status))
	}

	existing, err := s.repo.FindByOrder(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load download grants")
	}

	now := s.now()
	live := make(map[uuid.UUID]models.DownloadGrant, len(existing))
	for _, grant := range existing {
		if grant.Expired(now) {
			if err := s.repo.Delete(ctx, grant.ID); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove expired grant")
			}
			continue
		}
		if _, ok := live[grant.ProductID]; !ok {
			live[grant.ProductID] = grant
		}
	}

	grants := make([]models.DownloadGrant, 0, len(order.Items))
	seen := make(map[uuid.UUID]bool, len(order.Items))
	for _, item := range order.Items {
		if seen[item.ProductID] {
			continue
		}
		seen[item.ProductID] = true

		if grant, ok := live[item.ProductID]; ok {
			grants = append(grants, grant)
			continue
		}

		token, err := mintToken()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint download token")
		}
		grant := &models.DownloadGrant{
			OrderID:     order.ID,
			ProductID:   item.ProductID,
			Token:       token,
			DownloadURL: tokenizedURL(item.FileURL, token),
			GrantedAt:   now,
			ExpiresAt:   now.Add(s.grantTTL),
		}
		created, err := s.repo.Create(ctx, grant)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist download grant")
		}
		grants = append(grants, *created)
	}

	ctx = s.logger.WithOrderID(ctx, order.ID.String())
	s.logger.Info(ctx, fmt.Sprintf("download grants ready (%d)", len(grants)))
	return grants, nil
}

// ListByOrder returns the live grants for a completed order. Orders in any
// other status expose nothing.
func (s *service) ListByOrder(ctx context.Context, order *models.Order) ([]models.DownloadGrant, error) {
	if order == nil || order.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order is required")
	}
	if order.Status != enums.OrderStatusCompleted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("downloads require a completed order, status is %s", order.Status))
	}

	grants, err := s.repo.FindByOrder(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load download grants")
	}

	now := s.now()
	live := grants[:0]
	for _, grant := range grants {
		if !grant.Expired(now) {
			live = append(live, grant)
		}
	}
	return live, nil
}

// Resolve looks up a grant by its token, rejecting unknown and expired
// tokens alike.
func (s *service) Resolve(ctx context.Context, token string) (*models.DownloadGrant, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "download token is required")
	}

	grant, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "download not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load download grant")
	}
	if grant.Expired(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "download link has expired")
	}
	return grant, nil
}

func mintToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "dl_" + hex.EncodeToString(buf), nil
}

// tokenizedURL appends the access token to the stored file URL, preserving
// any query string already present.
func tokenizedURL(fileURL, token string) string {
	u, err := url.Parse(fileURL)
	if err != nil {
		return fmt.Sprintf("%s?token=%s", fileURL, token)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}
