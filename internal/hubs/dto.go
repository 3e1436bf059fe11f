package hubs

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/farmbatch-backend/pkg/db/models"
)

// HubDTO is the transport shape of a hub.
type HubDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromModel(h *models.Hub) *HubDTO {
	if h == nil {
		return nil
	}
	return &HubDTO{
		ID:        h.ID,
		Name:      h.Name,
		Address:   h.Address,
		IsActive:  h.IsActive,
		CreatedAt: h.CreatedAt,
		UpdatedAt: h.UpdatedAt,
	}
}

func FromModels(rows []models.Hub) []HubDTO {
	out := make([]HubDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
