package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
)

// Order is one buyer's commitment inside a batch.
type Order struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	BatchID         uuid.UUID             `gorm:"column:batch_id;type:uuid;not null"`
	BuyerID         uuid.UUID             `gorm:"column:buyer_id;type:uuid;not null"`
	Status          enums.OrderStatus     `gorm:"column:status;type:order_status;not null;default:'PLACED'"`
	FulfillmentType enums.FulfillmentType `gorm:"column:fulfillment_type;type:fulfillment_type;not null"`
	EstimatedTotal  decimal.Decimal       `gorm:"column:estimated_total;type:numeric(12,2);not null"`
	FacilitationAmt decimal.Decimal       `gorm:"column:facilitation_amt;type:numeric(12,2);not null"`
	CancelledAt     *time.Time            `gorm:"column:cancelled_at"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`

	Items    []OrderItem `gorm:"foreignKey:OrderID"`
	Payments []Payment   `gorm:"foreignKey:OrderID"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	return nil
}

// HasPayment reports whether a payment for stage is present in the loaded Payments.
func (o Order) HasPayment(stage enums.PaymentStage) bool {
	for _, p := range o.Payments {
		if p.Stage == stage {
			return true
		}
	}
	return false
}
