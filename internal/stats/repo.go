package stats

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/farmbatch-backend/internal/repo"
	"github.com/angelmondragon/farmbatch-backend/pkg/db/models"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
)

type Repository interface {
	CountActiveHubs(ctx context.Context) (int64, error)
	CountActiveFarmers(ctx context.Context) (int64, error)
	CountBatchesByStatus(ctx context.Context) (map[enums.BatchStatus]int64, error)
	CountOrders(ctx context.Context, status enums.OrderStatus) (int64, error)
}

type repository struct {
	repo.Base
}

func NewRepository(conn *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(conn)}
}

func (r *repository) CountActiveHubs(ctx context.Context) (int64, error) {
	var n int64
	err := repo.ApplyActiveFilter(r.DB(ctx).Model(&models.Hub{}), "", enums.ActiveFilterActive).Count(&n).Error
	return n, err
}

func (r *repository) CountActiveFarmers(ctx context.Context) (int64, error) {
	var n int64
	err := repo.ApplyActiveFilter(r.DB(ctx).Model(&models.Farmer{}), "", enums.ActiveFilterActive).Count(&n).Error
	return n, err
}

func (r *repository) CountBatchesByStatus(ctx context.Context) (map[enums.BatchStatus]int64, error) {
	var rows []struct {
		Status enums.BatchStatus
		Total  int64
	}
	if err := r.DB(ctx).Model(&models.Batch{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[enums.BatchStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Total
	}
	return out, nil
}

func (r *repository) CountOrders(ctx context.Context, status enums.OrderStatus) (int64, error) {
	var n int64
	err := r.DB(ctx).Model(&models.Order{}).Where("status = ?", status).Count(&n).Error
	return n, err
}
