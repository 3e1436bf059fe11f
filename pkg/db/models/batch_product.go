package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BatchProduct is a product's price and quantity offer inside one batch.
type BatchProduct struct {
	ID                  uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	BatchID             uuid.UUID           `gorm:"column:batch_id;type:uuid;not null"`
	ProductID           uuid.UUID           `gorm:"column:product_id;type:uuid;not null"`
	PricePerUnit        decimal.Decimal     `gorm:"column:price_per_unit;type:numeric(12,2);not null"`
	FacilitationPercent decimal.Decimal     `gorm:"column:facilitation_percent;type:numeric(5,2);not null"`
	MinOrderQty         decimal.Decimal     `gorm:"column:min_order_qty;type:numeric(12,3);not null"`
	MaxOrderQty         decimal.NullDecimal `gorm:"column:max_order_qty;type:numeric(12,3)"`
	IsActive            bool                `gorm:"column:is_active;not null"`
	CreatedAt           time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (bp *BatchProduct) BeforeCreate(*gorm.DB) error {
	ensureID(&bp.ID)
	return nil
}
