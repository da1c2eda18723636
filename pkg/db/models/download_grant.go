package models

import (
	"time"

	"github.com/google/uuid"
)

// DownloadGrant is a time-limited permission to fetch a purchased file.
// One grant per product per completed order; the token is opaque and
// never derived from the product id.
type DownloadGrant struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID   uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Token       string    `gorm:"column:token;not null;uniqueIndex"`
	DownloadURL string    `gorm:"column:download_url;not null"`
	GrantedAt   time.Time `gorm:"column:granted_at;not null"`
	ExpiresAt   time.Time `gorm:"column:expires_at;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

// Expired reports whether the grant is past its expiry at the given time.
func (g DownloadGrant) Expired(now time.Time) bool {
	return now.After(g.ExpiresAt)
}
