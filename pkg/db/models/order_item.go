package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItem snapshots a batch product's price at order time. UnitPrice is the
// base price; the facilitation markup is folded into LineTotal only.
type OrderItem struct {
	ID                  uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrderID             uuid.UUID           `gorm:"column:order_id;type:uuid;not null"`
	BatchProductID      uuid.UUID           `gorm:"column:batch_product_id;type:uuid;not null"`
	OrderedQty          decimal.Decimal     `gorm:"column:ordered_qty;type:numeric(12,3);not null"`
	UnitPrice           decimal.Decimal     `gorm:"column:unit_price;type:numeric(12,2);not null"`
	FacilitationPercent decimal.Decimal     `gorm:"column:facilitation_percent;type:numeric(5,2);not null"`
	LineTotal           decimal.Decimal     `gorm:"column:line_total;type:numeric(12,2);not null"`
	FinalQty            decimal.NullDecimal `gorm:"column:final_qty;type:numeric(12,3)"`
	CreatedAt           time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	BatchProduct *BatchProduct `gorm:"foreignKey:BatchProductID"`
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

// EffectiveQty is the packed quantity when recorded, otherwise the ordered one.
func (i OrderItem) EffectiveQty() decimal.Decimal {
	if i.FinalQty.Valid {
		return i.FinalQty.Decimal
	}
	return i.OrderedQty
}
