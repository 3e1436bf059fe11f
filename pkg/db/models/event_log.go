package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
)

// EventLog is an append-only audit entry written alongside every state change.
type EventLog struct {
	ID         uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	EntityType enums.EventEntityType `gorm:"column:entity_type;type:event_entity_type;not null"`
	EntityID   uuid.UUID             `gorm:"column:entity_id;type:uuid;not null"`
	Action     enums.EventAction     `gorm:"column:action;type:event_action;not null"`
	Metadata   json.RawMessage       `gorm:"column:metadata;type:jsonb;serializer:json"`
	ActorID    *uuid.UUID            `gorm:"column:actor_id;type:uuid"`
	CreatedAt  time.Time             `gorm:"column:created_at;autoCreateTime"`
}

func (EventLog) TableName() string {
	return "event_logs"
}

func (e *EventLog) BeforeCreate(*gorm.DB) error {
	ensureID(&e.ID)
	return nil
}
