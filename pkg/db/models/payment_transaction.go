package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/codewithtechdev/storefront-backend/pkg/enums"
)

// PaymentTransaction records every gateway outcome tied to an order,
// declines included.
type PaymentTransaction struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	TransactionID *string             `gorm:"column:transaction_id"`
	AmountCents   int64               `gorm:"column:amount_cents;not null"`
	Currency      enums.Currency      `gorm:"column:currency;not null;default:USD"`
	Status        enums.PaymentStatus `gorm:"column:status;not null"`
	Gateway       string              `gorm:"column:gateway;not null;default:verifone"`
	ErrorMessage  *string             `gorm:"column:error_message"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
}
