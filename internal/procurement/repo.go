package procurement

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/farmbatch-backend/internal/repo"
	"github.com/angelmondragon/farmbatch-backend/pkg/db/models"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
)

type Repository interface {
	FindBatch(ctx context.Context, id uuid.UUID) (*models.Batch, error)
	ListLines(ctx context.Context, batchID uuid.UUID, statuses []enums.OrderStatus) ([]Line, error)
}

type repository struct {
	repo.Base
}

func NewRepository(conn *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(conn)}
}

func (r *repository) FindBatch(ctx context.Context, id uuid.UUID) (*models.Batch, error) {
	var batch models.Batch
	if err := r.DB(ctx).Where("id = ?", id).First(&batch).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

// ListLines flattens every order item of the batch in the given statuses with
// its catalog product and farmer.
func (r *repository) ListLines(ctx context.Context, batchID uuid.UUID, statuses []enums.OrderStatus) ([]Line, error) {
	var lines []Line
	err := r.DB(ctx).
		Table("order_items AS oi").
		Select(`f.id AS farmer_id, f.name AS farmer_name, f.location AS farmer_location,
			p.id AS product_id, p.name AS product_name, p.unit AS unit,
			oi.ordered_qty AS ordered_qty`).
		Joins("JOIN orders o ON o.id = oi.order_id").
		Joins("JOIN batch_products bp ON bp.id = oi.batch_product_id").
		Joins("JOIN products p ON p.id = bp.product_id").
		Joins("JOIN farmers f ON f.id = p.farmer_id").
		Where("o.batch_id = ? AND o.status IN ?", batchID, statuses).
		Scan(&lines).Error
	return lines, err
}
