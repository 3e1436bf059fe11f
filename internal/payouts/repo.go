package payouts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/farmbatch-backend/internal/repo"
	"github.com/angelmondragon/farmbatch-backend/pkg/db/models"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindBatch(ctx context.Context, id uuid.UUID) (*models.Batch, error)
	FindFarmer(ctx context.Context, id uuid.UUID) (*models.Farmer, error)
	CountFarmerOffers(ctx context.Context, batchID, farmerID uuid.UUID) (int64, error)
	ListOwedLines(ctx context.Context, batchID uuid.UUID, statuses []enums.OrderStatus) ([]OwedLine, error)
	ListPayouts(ctx context.Context, batchID uuid.UUID) ([]models.FarmerPayout, error)
	FarmerNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
	CreatePayout(ctx context.Context, payout *models.FarmerPayout) error
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

func (r *repository) FindBatch(ctx context.Context, id uuid.UUID) (*models.Batch, error) {
	var batch models.Batch
	if err := r.DB(ctx).Where("id = ?", id).First(&batch).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

func (r *repository) FindFarmer(ctx context.Context, id uuid.UUID) (*models.Farmer, error) {
	var farmer models.Farmer
	if err := r.DB(ctx).Where("id = ?", id).First(&farmer).Error; err != nil {
		return nil, err
	}
	return &farmer, nil
}

// CountFarmerOffers counts the batch products of batchID supplied by farmerID.
func (r *repository) CountFarmerOffers(ctx context.Context, batchID, farmerID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).
		Table("batch_products AS bp").
		Joins("JOIN products p ON p.id = bp.product_id").
		Where("bp.batch_id = ? AND p.farmer_id = ?", batchID, farmerID).
		Count(&count).Error
	return count, err
}

func (r *repository) ListOwedLines(ctx context.Context, batchID uuid.UUID, statuses []enums.OrderStatus) ([]OwedLine, error) {
	var lines []OwedLine
	err := r.DB(ctx).
		Table("order_items AS oi").
		Select(`f.id AS farmer_id, f.name AS farmer_name,
			oi.ordered_qty AS ordered_qty, oi.final_qty AS final_qty, oi.unit_price AS unit_price`).
		Joins("JOIN orders o ON o.id = oi.order_id").
		Joins("JOIN batch_products bp ON bp.id = oi.batch_product_id").
		Joins("JOIN products p ON p.id = bp.product_id").
		Joins("JOIN farmers f ON f.id = p.farmer_id").
		Where("o.batch_id = ? AND o.status IN ?", batchID, statuses).
		Scan(&lines).Error
	return lines, err
}

func (r *repository) ListPayouts(ctx context.Context, batchID uuid.UUID) ([]models.FarmerPayout, error) {
	var payouts []models.FarmerPayout
	err := r.DB(ctx).
		Where("batch_id = ?", batchID).
		Order("paid_at ASC").
		Order("id ASC").
		Find(&payouts).Error
	return payouts, err
}

func (r *repository) FarmerNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var farmers []models.Farmer
	if err := r.DB(ctx).Select("id", "name").Where("id IN ?", ids).Find(&farmers).Error; err != nil {
		return nil, err
	}
	for _, f := range farmers {
		names[f.ID] = f.Name
	}
	return names, nil
}

func (r *repository) CreatePayout(ctx context.Context, payout *models.FarmerPayout) error {
	return r.DB(ctx).Create(payout).Error
}
