package eventlog

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/farmbatch-backend/pkg/db/models"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
)

// EventDTO is the transport shape of an audit record.
type EventDTO struct {
	ID         uuid.UUID             `json:"id"`
	EntityType enums.EventEntityType `json:"entity_type"`
	EntityID   uuid.UUID             `json:"entity_id"`
	Action     enums.EventAction     `json:"action"`
	Metadata   json.RawMessage       `json:"metadata"`
	ActorID    *uuid.UUID            `json:"actor_id,omitempty"`
	CreatedAt  time.Time             `json:"created_at"`
}

func FromModels(rows []models.EventLog) []EventDTO {
	out := make([]EventDTO, 0, len(rows))
	for _, e := range rows {
		out = append(out, EventDTO{
			ID:         e.ID,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Action:     e.Action,
			Metadata:   e.Metadata,
			ActorID:    e.ActorID,
			CreatedAt:  e.CreatedAt,
		})
	}
	return out
}
