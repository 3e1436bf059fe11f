package products

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/farmbatch-backend/pkg/db/models"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
)

// ProductDTO is the transport shape of a catalog product. FarmerName is set
// when the farmer association was loaded.
type ProductDTO struct {
	ID            uuid.UUID         `json:"id"`
	FarmerID      uuid.UUID         `json:"farmer_id"`
	FarmerName    string            `json:"farmer_name,omitempty"`
	Name          string            `json:"name"`
	Unit          enums.ProductUnit `json:"unit"`
	AvailableFrom *time.Time        `json:"available_from,omitempty"`
	AvailableTo   *time.Time        `json:"available_to,omitempty"`
	IsActive      bool              `json:"is_active"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	dto := &ProductDTO{
		ID:            p.ID,
		FarmerID:      p.FarmerID,
		Name:          p.Name,
		Unit:          p.Unit,
		AvailableFrom: p.AvailableFrom,
		AvailableTo:   p.AvailableTo,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.Farmer != nil {
		dto.FarmerName = p.Farmer.Name
	}
	return dto
}

func FromModels(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
