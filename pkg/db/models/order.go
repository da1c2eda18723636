package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/codewithtechdev/storefront-backend/pkg/enums"
)

// Order is the immutable snapshot taken from the live cart at checkout.
// Items and customer fields are deep copies; later cart mutation never
// touches a created order.
type Order struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Number        string            `gorm:"column:number;not null;uniqueIndex"`
	SessionID     uuid.UUID         `gorm:"column:session_id;type:uuid;not null;index"`
	Status        enums.OrderStatus `gorm:"column:status;not null"`
	SubtotalCents int64             `gorm:"column:subtotal_cents;not null"`
	TaxCents      int64             `gorm:"column:tax_cents;not null"`
	TotalCents    int64             `gorm:"column:total_cents;not null"`
	Currency      enums.Currency    `gorm:"column:currency;not null;default:USD"`
	TransactionID *string           `gorm:"column:transaction_id"`
	FailureReason *string           `gorm:"column:failure_reason"`

	CustomerEmail      string `gorm:"column:customer_email;not null"`
	CustomerFirstName  string `gorm:"column:customer_first_name;not null"`
	CustomerLastName   string `gorm:"column:customer_last_name;not null"`
	CustomerAddress    string `gorm:"column:customer_address;not null"`
	CustomerCity       string `gorm:"column:customer_city;not null"`
	CustomerCountry    string `gorm:"column:customer_country;not null"`
	CustomerPostalCode string `gorm:"column:customer_postal_code;not null"`

	Items     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is a purchased line captured at checkout time.
type OrderItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Name           string    `gorm:"column:name;not null"`
	UnitPriceCents int64     `gorm:"column:unit_price_cents;not null"`
	Quantity       int       `gorm:"column:quantity;not null"`
	ImageURL       *string   `gorm:"column:image_url"`
	FileURL        string    `gorm:"column:file_url;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
