package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
)

// Payment is a manually recorded buyer receipt. At most one per (order, stage).
type Payment struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrderID     uuid.UUID           `gorm:"column:order_id;type:uuid;not null"`
	Stage       enums.PaymentStage  `gorm:"column:stage;type:payment_stage;not null"`
	Amount      decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	Method      enums.PaymentMethod `gorm:"column:method;type:payment_method;not null"`
	ReferenceID *string             `gorm:"column:reference_id"`
	PaidAt      time.Time           `gorm:"column:paid_at;not null"`
	RecordedBy  uuid.UUID           `gorm:"column:recorded_by;type:uuid;not null"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (p *Payment) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
