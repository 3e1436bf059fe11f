package farmers

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/farmbatch-backend/pkg/db/models"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
)

// FarmerDTO is the transport shape of a farmer.
type FarmerDTO struct {
	ID                uuid.UUID               `json:"id"`
	Name              string                  `json:"name"`
	Phone             *string                 `json:"phone,omitempty"`
	Location          string                  `json:"location"`
	RelationshipLevel enums.RelationshipLevel `json:"relationship_level"`
	UPIID             *string                 `json:"upi_id,omitempty"`
	IsActive          bool                    `json:"is_active"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
}

func FromModel(f *models.Farmer) *FarmerDTO {
	if f == nil {
		return nil
	}
	return &FarmerDTO{
		ID:                f.ID,
		Name:              f.Name,
		Phone:             f.Phone,
		Location:          f.Location,
		RelationshipLevel: f.RelationshipLevel,
		UPIID:             f.UPIID,
		IsActive:          f.IsActive,
		CreatedAt:         f.CreatedAt,
		UpdatedAt:         f.UpdatedAt,
	}
}

func FromModels(rows []models.Farmer) []FarmerDTO {
	out := make([]FarmerDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
