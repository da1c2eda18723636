package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/codewithtechdev/storefront-backend/pkg/enums"
)

// Product is a downloadable digital good in the catalog.
type Product struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string                `gorm:"column:name;not null"`
	Description *string               `gorm:"column:description"`
	Category    enums.ProductCategory `gorm:"column:category;not null"`
	Price       decimal.Decimal       `gorm:"column:price;type:numeric(10,2);not null"`
	ImageURL    *string               `gorm:"column:image_url"`
	FileURL     string                `gorm:"column:file_url;not null"`
	Features    pq.StringArray        `gorm:"column:features;type:text[]"`
	IsActive    bool                  `gorm:"column:is_active;not null;default:true"`
	IsFeatured  bool                  `gorm:"column:is_featured;not null;default:false"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
