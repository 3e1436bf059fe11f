package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/farmbatch-backend/internal/payments"
	"github.com/angelmondragon/farmbatch-backend/pkg/db/models"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
)

// OrderDTO is the transport shape of an order with its lines and payments.
type OrderDTO struct {
	ID              uuid.UUID             `json:"id"`
	BatchID         uuid.UUID             `json:"batch_id"`
	BuyerID         uuid.UUID             `json:"buyer_id"`
	Status          enums.OrderStatus     `json:"status"`
	FulfillmentType enums.FulfillmentType `json:"fulfillment_type"`
	EstimatedTotal  decimal.Decimal       `json:"estimated_total"`
	FacilitationAmt decimal.Decimal       `json:"facilitation_amt"`
	CancelledAt     *time.Time            `json:"cancelled_at,omitempty"`
	Items           []OrderItemDTO        `json:"items"`
	Payments        []payments.PaymentDTO `json:"payments"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

type OrderItemDTO struct {
	ID                  uuid.UUID         `json:"id"`
	BatchProductID      uuid.UUID         `json:"batch_product_id"`
	ProductName         string            `json:"product_name,omitempty"`
	Unit                enums.ProductUnit `json:"unit,omitempty"`
	OrderedQty          decimal.Decimal   `json:"ordered_qty"`
	FinalQty            *decimal.Decimal  `json:"final_qty,omitempty"`
	UnitPrice           decimal.Decimal   `json:"unit_price"`
	FacilitationPercent decimal.Decimal   `json:"facilitation_percent"`
	LineTotal           decimal.Decimal   `json:"line_total"`
}

func FromModel(o models.Order) OrderDTO {
	dto := OrderDTO{
		ID:              o.ID,
		BatchID:         o.BatchID,
		BuyerID:         o.BuyerID,
		Status:          o.Status,
		FulfillmentType: o.FulfillmentType,
		EstimatedTotal:  o.EstimatedTotal,
		FacilitationAmt: o.FacilitationAmt,
		CancelledAt:     o.CancelledAt,
		Items:           make([]OrderItemDTO, 0, len(o.Items)),
		Payments:        payments.FromModels(o.Payments),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	for _, item := range o.Items {
		line := OrderItemDTO{
			ID:                  item.ID,
			BatchProductID:      item.BatchProductID,
			OrderedQty:          item.OrderedQty,
			UnitPrice:           item.UnitPrice,
			FacilitationPercent: item.FacilitationPercent,
			LineTotal:           item.LineTotal,
		}
		if item.FinalQty.Valid {
			finalQty := item.FinalQty.Decimal
			line.FinalQty = &finalQty
		}
		if bp := item.BatchProduct; bp != nil && bp.Product != nil {
			line.ProductName = bp.Product.Name
			line.Unit = bp.Product.Unit
		}
		dto.Items = append(dto.Items, line)
	}
	return dto
}
