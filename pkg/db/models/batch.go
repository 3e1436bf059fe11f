package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
)

// Batch is one time-boxed aggregation cycle at a hub.
type Batch struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	HubID        uuid.UUID         `gorm:"column:hub_id;type:uuid;not null"`
	Name         string            `gorm:"column:name;not null"`
	Status       enums.BatchStatus `gorm:"column:status;type:batch_status;not null;default:'DRAFT'"`
	OpenAt       time.Time         `gorm:"column:open_at;not null"`
	CutoffAt     time.Time         `gorm:"column:cutoff_at;not null"`
	DeliveryDate time.Time         `gorm:"column:delivery_date;not null"`
	CreatedBy    uuid.UUID         `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`

	Hub *Hub `gorm:"foreignKey:HubID"`
}

func (b *Batch) BeforeCreate(*gorm.DB) error {
	ensureID(&b.ID)
	return nil
}

// AcceptsOrders reports whether buyers can place or edit orders at now.
func (b Batch) AcceptsOrders(now time.Time) bool {
	return b.Status == enums.BatchStatusOpen && b.CutoffAt.After(now)
}
