package payments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/farmbatch-backend/internal/repo"
	"github.com/angelmondragon/farmbatch-backend/pkg/db"
	"github.com/angelmondragon/farmbatch-backend/pkg/db/models"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
)

// Repository persists the buyer payment ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindOrderForUpdate(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	OrderExists(ctx context.Context, orderID uuid.UUID) (bool, error)
	CreatePayment(ctx context.Context, payment *models.Payment) error
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error
	ListPayments(ctx context.Context, orderID uuid.UUID) ([]models.Payment, error)
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

func (r *repository) FindOrderForUpdate(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := db.ForUpdate(r.DB(ctx)).Where("id = ?", orderID).First(&order).Error; err != nil {
		return nil, err
	}
	if err := r.DB(ctx).Where("order_id = ?", orderID).Find(&order.Payments).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) OrderExists(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Order{}).Where("id = ?", orderID).Count(&count).Error
	return count > 0, err
}

func (r *repository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return r.DB(ctx).Create(payment).Error
}

func (r *repository) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	return r.DB(ctx).Model(&models.Order{}).Where("id = ?", orderID).Update("status", status).Error
}

func (r *repository) ListPayments(ctx context.Context, orderID uuid.UUID) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.DB(ctx).Where("order_id = ?", orderID).Order("paid_at ASC").Order("id ASC").Find(&payments).Error
	return payments, err
}
