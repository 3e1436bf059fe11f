package batches

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/farmbatch-backend/internal/repo"
	"github.com/angelmondragon/farmbatch-backend/pkg/db"
	"github.com/angelmondragon/farmbatch-backend/pkg/db/models"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
	"github.com/angelmondragon/farmbatch-backend/pkg/pagination"
)

// Repository persists batches and their product offers.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateBatch(ctx context.Context, batch *models.Batch) error
	FindBatch(ctx context.Context, id uuid.UUID) (*models.Batch, error)
	FindBatchForUpdate(ctx context.Context, id uuid.UUID) (*models.Batch, error)
	ListBatches(ctx context.Context, filter ListFilter, cursor *pagination.Cursor, limit int) ([]models.Batch, error)
	UpdateBatch(ctx context.Context, id uuid.UUID, updates map[string]any) error

	CreateBatchProduct(ctx context.Context, bp *models.BatchProduct) error
	FindBatchProduct(ctx context.Context, id uuid.UUID) (*models.BatchProduct, error)
	ListBatchProducts(ctx context.Context, batchID uuid.UUID, filter enums.ActiveFilter) ([]models.BatchProduct, error)
	UpdateBatchProduct(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteBatchProduct(ctx context.Context, id uuid.UUID) error
	CountOrderItemReferences(ctx context.Context, batchProductID uuid.UUID) (int64, error)
}

// ListFilter narrows batch listings. Nil fields are not applied.
type ListFilter struct {
	HubID  *uuid.UUID
	Status *enums.BatchStatus
}

type repository struct {
	repo.Base
}

func NewRepository(conn *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(conn)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) CreateBatch(ctx context.Context, batch *models.Batch) error {
	return r.DB(ctx).Create(batch).Error
}

func (r *repository) FindBatch(ctx context.Context, id uuid.UUID) (*models.Batch, error) {
	var batch models.Batch
	if err := r.DB(ctx).Preload("Hub").Where("id = ?", id).First(&batch).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

func (r *repository) FindBatchForUpdate(ctx context.Context, id uuid.UUID) (*models.Batch, error) {
	var batch models.Batch
	if err := db.ForUpdate(r.DB(ctx)).Where("id = ?", id).First(&batch).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

// ListBatches returns newest first, keyed by (created_at, id).
func (r *repository) ListBatches(ctx context.Context, filter ListFilter, cursor *pagination.Cursor, limit int) ([]models.Batch, error) {
	q := r.DB(ctx).Model(&models.Batch{})
	if filter.HubID != nil {
		q = q.Where("hub_id = ?", *filter.HubID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if cursor != nil {
		q = q.Where("((created_at < ?) OR (created_at = ? AND id < ?))", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var batches []models.Batch
	if err := q.Preload("Hub").
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

func (r *repository) UpdateBatch(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.DB(ctx).Model(&models.Batch{}).Where("id = ?", id).Updates(updates).Error
}

func (r *repository) CreateBatchProduct(ctx context.Context, bp *models.BatchProduct) error {
	return r.DB(ctx).Create(bp).Error
}

func (r *repository) FindBatchProduct(ctx context.Context, id uuid.UUID) (*models.BatchProduct, error) {
	var bp models.BatchProduct
	if err := r.DB(ctx).Preload("Product").Where("id = ?", id).First(&bp).Error; err != nil {
		return nil, err
	}
	return &bp, nil
}

func (r *repository) ListBatchProducts(ctx context.Context, batchID uuid.UUID, filter enums.ActiveFilter) ([]models.BatchProduct, error) {
	q := repo.ApplyActiveFilter(r.DB(ctx).Model(&models.BatchProduct{}), "", filter).
		Where("batch_id = ?", batchID)

	var products []models.BatchProduct
	if err := q.Preload("Product.Farmer").
		Order("created_at ASC").
		Order("id ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) UpdateBatchProduct(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.DB(ctx).Model(&models.BatchProduct{}).Where("id = ?", id).Updates(updates).Error
}

func (r *repository) DeleteBatchProduct(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&models.BatchProduct{}).Error
}

func (r *repository) CountOrderItemReferences(ctx context.Context, batchProductID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.OrderItem{}).Where("batch_product_id = ?", batchProductID).Count(&count).Error
	return count, err
}
