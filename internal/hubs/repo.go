package hubs

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/farmbatch-backend/internal/repo"
	"github.com/angelmondragon/farmbatch-backend/pkg/db/models"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
)

// Repository persists hubs.
type Repository interface {
	Create(ctx context.Context, hub *models.Hub) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Hub, error)
	List(ctx context.Context, filter enums.ActiveFilter) ([]models.Hub, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) Create(ctx context.Context, hub *models.Hub) error {
	return r.DB(ctx).Create(hub).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Hub, error) {
	var hub models.Hub
	if err := r.DB(ctx).Where("id = ?", id).First(&hub).Error; err != nil {
		return nil, err
	}
	return &hub, nil
}

func (r *repository) List(ctx context.Context, filter enums.ActiveFilter) ([]models.Hub, error) {
	var hubs []models.Hub
	q := repo.ApplyActiveFilter(r.DB(ctx).Model(&models.Hub{}), "", filter)
	if err := q.Order("name ASC").Find(&hubs).Error; err != nil {
		return nil, err
	}
	return hubs, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.DB(ctx).Model(&models.Hub{}).Where("id = ?", id).Updates(updates).Error
}
