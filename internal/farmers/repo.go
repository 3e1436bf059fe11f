package farmers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/farmbatch-backend/internal/repo"
	"github.com/angelmondragon/farmbatch-backend/pkg/db/models"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
)

// Repository persists farmers.
type Repository interface {
	Create(ctx context.Context, farmer *models.Farmer) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Farmer, error)
	List(ctx context.Context, filter ListFilter) ([]models.Farmer, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

// ListFilter narrows farmer listings. Active is always explicit.
type ListFilter struct {
	Active            enums.ActiveFilter
	RelationshipLevel *enums.RelationshipLevel
	Search            string
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) Create(ctx context.Context, farmer *models.Farmer) error {
	return r.DB(ctx).Create(farmer).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Farmer, error) {
	var farmer models.Farmer
	if err := r.DB(ctx).Where("id = ?", id).First(&farmer).Error; err != nil {
		return nil, err
	}
	return &farmer, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.Farmer, error) {
	q := repo.ApplyActiveFilter(r.DB(ctx).Model(&models.Farmer{}), "", filter.Active)
	if filter.RelationshipLevel != nil {
		q = q.Where("relationship_level = ?", *filter.RelationshipLevel)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("(LOWER(name) LIKE LOWER(?) OR LOWER(location) LIKE LOWER(?))", like, like)
	}

	var farmers []models.Farmer
	if err := q.Order("name ASC").Find(&farmers).Error; err != nil {
		return nil, err
	}
	return farmers, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.DB(ctx).Model(&models.Farmer{}).Where("id = ?", id).Updates(updates).Error
}
