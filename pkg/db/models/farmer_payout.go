package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FarmerPayout is money disbursed to a farmer for a batch. It is reconciled by
// aggregate sum, never against individual order items.
type FarmerPayout struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	BatchID      uuid.UUID       `gorm:"column:batch_id;type:uuid;not null"`
	FarmerID     uuid.UUID       `gorm:"column:farmer_id;type:uuid;not null"`
	Amount       decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	UPIReference string          `gorm:"column:upi_reference;not null"`
	PaidAt       time.Time       `gorm:"column:paid_at;not null"`
	RecordedBy   uuid.UUID       `gorm:"column:recorded_by;type:uuid;not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (p *FarmerPayout) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
