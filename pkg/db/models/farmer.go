package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
)

// Farmer supplies produce. Deactivating a farmer leaves its products untouched.
type Farmer struct {
	ID                uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	Name              string                  `gorm:"column:name;not null"`
	Phone             *string                 `gorm:"column:phone"`
	Location          string                  `gorm:"column:location;not null"`
	RelationshipLevel enums.RelationshipLevel `gorm:"column:relationship_level;type:relationship_level;not null"`
	UPIID             *string                 `gorm:"column:upi_id"`
	IsActive          bool                    `gorm:"column:is_active;not null"`
	CreatedAt         time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

func (f *Farmer) BeforeCreate(*gorm.DB) error {
	ensureID(&f.ID)
	return nil
}
