package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
)

// Product is a catalog item owned by exactly one farmer, optionally seasonal.
type Product struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	FarmerID      uuid.UUID         `gorm:"column:farmer_id;type:uuid;not null"`
	Name          string            `gorm:"column:name;not null"`
	Unit          enums.ProductUnit `gorm:"column:unit;type:product_unit;not null"`
	AvailableFrom *time.Time        `gorm:"column:available_from"`
	AvailableTo   *time.Time        `gorm:"column:available_to"`
	IsActive      bool              `gorm:"column:is_active;not null"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`

	Farmer *Farmer `gorm:"foreignKey:FarmerID"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
