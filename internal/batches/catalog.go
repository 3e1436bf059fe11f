package batches

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/farmbatch-backend/internal/eventlog"
	"github.com/angelmondragon/farmbatch-backend/internal/repo"
	"github.com/angelmondragon/farmbatch-backend/pkg/db"
	"github.com/angelmondragon/farmbatch-backend/pkg/db/models"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmbatch-backend/pkg/errors"
)

var maxFacilitationPercent = decimal.NewFromInt(100)

type AddProductInput struct {
	ProductID           uuid.UUID
	PricePerUnit        decimal.Decimal
	FacilitationPercent decimal.Decimal
	MinOrderQty         decimal.Decimal
	MaxOrderQty         *decimal.Decimal
	ActorID             uuid.UUID
}

// UpdateProductInput applies only the non-nil fields. Pricing and bounds are
// frozen once the batch leaves DRAFT; IsActive may change until the batch settles.
type UpdateProductInput struct {
	PricePerUnit        *decimal.Decimal
	FacilitationPercent *decimal.Decimal
	MinOrderQty         *decimal.Decimal
	MaxOrderQty         *decimal.Decimal
	ClearMaxOrderQty    bool
	IsActive            *bool
	ActorID             uuid.UUID
}

func (in UpdateProductInput) touchesPricing() bool {
	return in.PricePerUnit != nil || in.FacilitationPercent != nil ||
		in.MinOrderQty != nil || in.MaxOrderQty != nil || in.ClearMaxOrderQty
}

type offerTerms struct {
	price decimal.Decimal
	pct   decimal.Decimal
	min   decimal.Decimal
	max   decimal.NullDecimal
}

func (t offerTerms) validate() error {
	if !t.price.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price_per_unit must be positive")
	}
	if t.pct.IsNegative() || t.pct.GreaterThan(maxFacilitationPercent) {
		return pkgerrors.New(pkgerrors.CodeValidation, "facilitation_percent must be between 0 and 100")
	}
	if !t.min.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "min_order_qty must be positive")
	}
	if t.max.Valid && t.max.Decimal.LessThan(t.min) {
		return pkgerrors.New(pkgerrors.CodeValidation, "max_order_qty must not be below min_order_qty").
			WithDetails(map[string]any{"min": t.min, "max": t.max.Decimal})
	}
	return nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

func (s *service) AddProduct(ctx context.Context, batchID uuid.UUID, input AddProductInput) (*models.BatchProduct, error) {
	terms := offerTerms{
		price: input.PricePerUnit,
		pct:   input.FacilitationPercent,
		min:   input.MinOrderQty,
		max:   nullDecimal(input.MaxOrderQty),
	}
	if err := terms.validate(); err != nil {
		return nil, err
	}

	product, err := s.products.Get(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidOperation, "product is inactive")
	}

	bp := &models.BatchProduct{
		BatchID:             batchID,
		ProductID:           product.ID,
		PricePerUnit:        terms.price,
		FacilitationPercent: terms.pct,
		MinOrderQty:         terms.min,
		MaxOrderQty:         terms.max,
		IsActive:            true,
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		batch, err := r.FindBatchForUpdate(ctx, batchID)
		if err != nil {
			return repo.LoadError(err, "batch")
		}
		if batch.Status != enums.BatchStatusDraft {
			return pkgerrors.New(pkgerrors.CodeInvalidOperation, "products can only be added while the batch is DRAFT").
				WithDetails(map[string]any{"current": batch.Status})
		}

		if err := r.CreateBatchProduct(ctx, bp); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product already offered in this batch")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create batch product")
		}
		return s.events.Append(ctx, tx, eventlog.Entry{
			EntityType: enums.EventEntityTypeBatchProduct,
			EntityID:   bp.ID,
			Action:     enums.EventActionBatchProductAdded,
			Metadata: map[string]any{
				"batch_id":             batchID,
				"product_id":           product.ID,
				"price_per_unit":       bp.PricePerUnit,
				"facilitation_percent": bp.FacilitationPercent,
			},
			ActorID: input.ActorID,
		})
	})
	if err != nil {
		return nil, repo.TxError(err, "add batch product")
	}

	bp.Product = product
	return bp, nil
}

func (s *service) UpdateProduct(ctx context.Context, batchProductID uuid.UUID, input UpdateProductInput) (*models.BatchProduct, error) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		bp, err := r.FindBatchProduct(ctx, batchProductID)
		if err != nil {
			return repo.LoadError(err, "batch product")
		}
		batch, err := r.FindBatchForUpdate(ctx, bp.BatchID)
		if err != nil {
			return repo.LoadError(err, "batch")
		}

		if input.touchesPricing() && batch.Status != enums.BatchStatusDraft {
			return pkgerrors.New(pkgerrors.CodeInvalidOperation, "pricing can only change while the batch is DRAFT").
				WithDetails(map[string]any{"current": batch.Status})
		}
		if input.IsActive != nil && batch.Status.Terminal() {
			return pkgerrors.New(pkgerrors.CodeInvalidOperation, "batch is settled").
				WithDetails(map[string]any{"current": batch.Status})
		}

		terms := offerTerms{price: bp.PricePerUnit, pct: bp.FacilitationPercent, min: bp.MinOrderQty, max: bp.MaxOrderQty}
		updates := map[string]any{}
		if input.PricePerUnit != nil {
			terms.price = *input.PricePerUnit
			updates["price_per_unit"] = terms.price
		}
		if input.FacilitationPercent != nil {
			terms.pct = *input.FacilitationPercent
			updates["facilitation_percent"] = terms.pct
		}
		if input.MinOrderQty != nil {
			terms.min = *input.MinOrderQty
			updates["min_order_qty"] = terms.min
		}
		if input.ClearMaxOrderQty {
			terms.max = decimal.NullDecimal{}
			updates["max_order_qty"] = nil
		}
		if input.MaxOrderQty != nil {
			terms.max = decimal.NewNullDecimal(*input.MaxOrderQty)
			updates["max_order_qty"] = terms.max
		}
		if err := terms.validate(); err != nil {
			return err
		}
		if input.IsActive != nil {
			updates["is_active"] = *input.IsActive
		}
		if len(updates) == 0 {
			return nil
		}

		if err := r.UpdateBatchProduct(ctx, batchProductID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update batch product")
		}
		return s.events.Append(ctx, tx, eventlog.Entry{
			EntityType: enums.EventEntityTypeBatchProduct,
			EntityID:   batchProductID,
			Action:     enums.EventActionBatchProductUpdated,
			Metadata:   updates,
			ActorID:    input.ActorID,
		})
	})
	if err != nil {
		return nil, repo.TxError(err, "update batch product")
	}

	bp, err := s.repo.FindBatchProduct(ctx, batchProductID)
	if err != nil {
		return nil, repo.LoadError(err, "batch product")
	}
	return bp, nil
}

// RemoveProduct hard-deletes an offer from a DRAFT batch. Offers that orders
// already reference must be deactivated instead.
func (s *service) RemoveProduct(ctx context.Context, batchProductID, actorID uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		bp, err := r.FindBatchProduct(ctx, batchProductID)
		if err != nil {
			return repo.LoadError(err, "batch product")
		}
		batch, err := r.FindBatchForUpdate(ctx, bp.BatchID)
		if err != nil {
			return repo.LoadError(err, "batch")
		}
		if batch.Status != enums.BatchStatusDraft {
			return pkgerrors.New(pkgerrors.CodeInvalidOperation, "products can only be removed while the batch is DRAFT; deactivate instead").
				WithDetails(map[string]any{"current": batch.Status})
		}
		refs, err := r.CountOrderItemReferences(ctx, batchProductID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count order items")
		}
		if refs > 0 {
			return pkgerrors.New(pkgerrors.CodeInvalidOperation, "batch product is referenced by orders; deactivate instead").
				WithDetails(map[string]any{"order_items": refs})
		}

		if err := r.DeleteBatchProduct(ctx, batchProductID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete batch product")
		}
		return s.events.Append(ctx, tx, eventlog.Entry{
			EntityType: enums.EventEntityTypeBatchProduct,
			EntityID:   batchProductID,
			Action:     enums.EventActionBatchProductRemoved,
			Metadata:   map[string]any{"batch_id": bp.BatchID, "product_id": bp.ProductID},
			ActorID:    actorID,
		})
	})
	return repo.TxError(err, "remove batch product")
}

func (s *service) ListProducts(ctx context.Context, batchID uuid.UUID, filter enums.ActiveFilter) ([]models.BatchProduct, error) {
	if !filter.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid active filter")
	}
	if _, err := s.Get(ctx, batchID); err != nil {
		return nil, err
	}
	products, err := s.repo.ListBatchProducts(ctx, batchID, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list batch products")
	}
	return products, nil
}
