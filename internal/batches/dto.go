package batches

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/farmbatch-backend/pkg/db/models"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
)

// BatchDTO is the transport shape of a batch.
type BatchDTO struct {
	ID           uuid.UUID         `json:"id"`
	HubID        uuid.UUID         `json:"hub_id"`
	HubName      string            `json:"hub_name,omitempty"`
	Name         string            `json:"name"`
	Status       enums.BatchStatus `json:"status"`
	OpenAt       time.Time         `json:"open_at"`
	CutoffAt     time.Time         `json:"cutoff_at"`
	DeliveryDate time.Time         `json:"delivery_date"`
	CreatedBy    uuid.UUID         `json:"created_by"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// BatchProductDTO is a product offer inside a batch. Product fields are
// flattened when the association was loaded.
type BatchProductDTO struct {
	ID                  uuid.UUID         `json:"id"`
	BatchID             uuid.UUID         `json:"batch_id"`
	ProductID           uuid.UUID         `json:"product_id"`
	ProductName         string            `json:"product_name,omitempty"`
	Unit                enums.ProductUnit `json:"unit,omitempty"`
	FarmerID            *uuid.UUID        `json:"farmer_id,omitempty"`
	FarmerName          string            `json:"farmer_name,omitempty"`
	PricePerUnit        decimal.Decimal   `json:"price_per_unit"`
	FacilitationPercent decimal.Decimal   `json:"facilitation_percent"`
	MinOrderQty         decimal.Decimal   `json:"min_order_qty"`
	MaxOrderQty         *decimal.Decimal  `json:"max_order_qty,omitempty"`
	IsActive            bool              `json:"is_active"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

func FromModel(b models.Batch) BatchDTO {
	dto := BatchDTO{
		ID:           b.ID,
		HubID:        b.HubID,
		Name:         b.Name,
		Status:       b.Status,
		OpenAt:       b.OpenAt,
		CutoffAt:     b.CutoffAt,
		DeliveryDate: b.DeliveryDate,
		CreatedBy:    b.CreatedBy,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
	if b.Hub != nil {
		dto.HubName = b.Hub.Name
	}
	return dto
}

func ProductFromModel(bp models.BatchProduct) BatchProductDTO {
	dto := BatchProductDTO{
		ID:                  bp.ID,
		BatchID:             bp.BatchID,
		ProductID:           bp.ProductID,
		PricePerUnit:        bp.PricePerUnit,
		FacilitationPercent: bp.FacilitationPercent,
		MinOrderQty:         bp.MinOrderQty,
		IsActive:            bp.IsActive,
		CreatedAt:           bp.CreatedAt,
		UpdatedAt:           bp.UpdatedAt,
	}
	if bp.MaxOrderQty.Valid {
		maxQty := bp.MaxOrderQty.Decimal
		dto.MaxOrderQty = &maxQty
	}
	if p := bp.Product; p != nil {
		dto.ProductName = p.Name
		dto.Unit = p.Unit
		farmerID := p.FarmerID
		dto.FarmerID = &farmerID
		if p.Farmer != nil {
			dto.FarmerName = p.Farmer.Name
		}
	}
	return dto
}

func ProductsFromModels(rows []models.BatchProduct) []BatchProductDTO {
	out := make([]BatchProductDTO, 0, len(rows))
	for _, bp := range rows {
		out = append(out, ProductFromModel(bp))
	}
	return out
}
