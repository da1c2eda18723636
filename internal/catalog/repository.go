package catalog

import (
	"context"

	"github.com/codewithtechdev/storefront-backend/pkg/db/models"
	"github.com/codewithtechdev/storefront-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines read operations over the product catalog.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListActive(ctx context.Context, filters ListFilters) ([]models.Product, error)
}

// ListFilters narrows and orders a catalog listing.
type ListFilters struct {
	Category     *enums.ProductCategory
	FeaturedOnly bool
	Sort         Sort
}

// Sort enumerates the storefront's product orderings.
type Sort string

const (
	SortNewest    Sort = "newest"
	SortPriceLow  Sort = "price-low"
	SortPriceHigh Sort = "price-high"
	SortName      Sort = "name"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) ListActive(ctx context.Context, filters ListFilters) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Where("is_active = ?", true)

	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.FeaturedOnly {
		query = query.Where("is_featured = ?", true)
	}

	switch filters.Sort {
	case SortPriceLow:
		query = query.Order("price ASC")
	case SortPriceHigh:
		query = query.Order("price DESC")
	case SortName:
		query = query.Order("name ASC")
	default:
		query = query.Order("created_at DESC")
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
