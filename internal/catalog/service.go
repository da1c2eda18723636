package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/codewithtechdev/storefront-backend/pkg/db/models"
	"github.com/codewithtechdev/storefront-backend/pkg/enums"
	pkgerrors "github.com/codewithtechdev/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes storefront catalog reads.
type Service interface {
	ListProducts(ctx context.Context, input ListProductsInput) ([]models.Product, error)
	FeaturedProducts(ctx context.Context, limit int) ([]models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListCategories(ctx context.Context) []enums.ProductCategory
}

// ListProductsInput captures catalog listing filters from the API layer.
type ListProductsInput struct {
	Category string
	Sort     string
}

const defaultFeaturedLimit = 4

type service struct {
	repo Repository
}

// NewService builds the catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) ([]models.Product, error) {
	filters := ListFilters{Sort: normalizeSort(input.Sort)}

	if input.Category != "" {
		category := enums.ProductCategory(input.Category)
		if !category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown product category")
		}
		filters.Category = &category
	}

	products, err := s.repo.ListActive(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}

func (s *service) FeaturedProducts(ctx context.Context, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = defaultFeaturedLimit
	}

	products, err := s.repo.ListActive(ctx, ListFilters{FeaturedOnly: true})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list featured products")
	}
	if len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func (s *service) ListCategories(_ context.Context) []enums.ProductCategory {
	return enums.AllProductCategories()
}

func normalizeSort(raw string) Sort {
	switch Sort(raw) {
	case SortPriceLow, SortPriceHigh, SortName, SortNewest:
		return Sort(raw)
	}
	return SortNewest
}
