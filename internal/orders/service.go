package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/farmbatch-backend/internal/eventlog"
	"github.com/angelmondragon/farmbatch-backend/internal/repo"
	"github.com/angelmondragon/farmbatch-backend/pkg/db"
	"github.com/angelmondragon/farmbatch-backend/pkg/db/models"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmbatch-backend/pkg/errors"
	"github.com/angelmondragon/farmbatch-backend/pkg/logger"
	"github.com/angelmondragon/farmbatch-backend/pkg/metrics"
	"github.com/angelmondragon/farmbatch-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service places, edits and reads buyer orders.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	EditOrder(ctx context.Context, orderID, buyerID uuid.UUID, input EditOrderInput) (*models.Order, error)
	CancelOrder(ctx context.Context, orderID, buyerID uuid.UUID) (*models.Order, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	GetBuyerOrder(ctx context.Context, orderID, buyerID uuid.UUID) (*models.Order, error)
	ListBatchOrders(ctx context.Context, batchID uuid.UUID, status *enums.OrderStatus, params pagination.Params) (pagination.Page[models.Order], error)
	ListBuyerOrders(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (pagination.Page[models.Order], error)
}

type ItemInput struct {
	BatchProductID uuid.UUID
	OrderedQty     decimal.Decimal
}

type CreateOrderInput struct {
	BatchID         uuid.UUID
	BuyerID         uuid.UUID
	FulfillmentType enums.FulfillmentType
	Items           []ItemInput
}

// EditOrderInput changes an order in place. A nil Items leaves the lines alone;
// a non-nil Items with no positive quantity cancels the order.
type EditOrderInput struct {
	FulfillmentType *enums.FulfillmentType
	Items           []ItemInput
}

// ServiceParams bundles the dependencies required to build an order service.
type ServiceParams struct {
	Repo    Repository
	Tx      txRunner
	Events  eventlog.Appender
	Metrics *metrics.Lifecycle
	Logger  *logger.Logger
	Now     func() time.Time
}

type service struct {
	repo    Repository
	tx      txRunner
	events  eventlog.Appender
	metrics *metrics.Lifecycle
	logg    *logger.Logger
	now     func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Events == nil {
		return nil, fmt.Errorf("event log appender required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:    params.Repo,
		tx:      params.Tx,
		events:  params.Events,
		metrics: params.Metrics,
		logg:    logg,
		now:     now,
	}, nil
}

func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.BuyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer identity missing")
	}
	if !input.FulfillmentType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid fulfillment type")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}
	if err := validateItemInputs(input.Items); err != nil {
		return nil, err
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		if _, err := s.loadOrderableBatch(ctx, r, input.BatchID); err != nil {
			return err
		}
		priced, err := s.priceItems(ctx, r, input.BatchID, input.Items)
		if err != nil {
			return err
		}

		order = &models.Order{
			BatchID:         input.BatchID,
			BuyerID:         input.BuyerID,
			Status:          enums.OrderStatusPlaced,
			FulfillmentType: input.FulfillmentType,
			EstimatedTotal:  priced.quote.EstimatedTotal,
			FacilitationAmt: priced.quote.FacilitationAmt,
		}
		if err := r.CreateOrder(ctx, order); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeDuplicateOrder, err, "buyer already has an active order in this batch").
					WithDetails(map[string]any{"batch_id": input.BatchID})
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		items := priced.orderItems(order.ID)
		if err := r.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}
		return s.events.Append(ctx, tx, eventlog.Entry{
			EntityType: enums.EventEntityTypeOrder,
			EntityID:   order.ID,
			Action:     enums.EventActionOrderCreated,
			Metadata: map[string]any{
				"batch_id":         input.BatchID,
				"fulfillment_type": input.FulfillmentType,
				"items":            len(items),
				"estimated_total":  order.EstimatedTotal,
				"facilitation_amt": order.FacilitationAmt,
			},
			ActorID: input.BuyerID,
		})
	})
	if err != nil {
		return nil, repo.TxError(err, "create order")
	}

	ctx = s.logg.WithOrderID(s.logg.WithBatchID(ctx, input.BatchID.String()), order.ID.String())
	s.logg.Info(ctx, "order placed")
	return s.GetOrder(ctx, order.ID)
}

func (s *service) EditOrder(ctx context.Context, orderID, buyerID uuid.UUID, input EditOrderInput) (*models.Order, error) {
	if input.FulfillmentType == nil && input.Items == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to change")
	}
	if input.FulfillmentType != nil && !input.FulfillmentType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid fulfillment type")
	}
	if err := validateItemInputs(input.Items); err != nil {
		return nil, err
	}

	cancelled := false
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		order, err := r.FindOrderForUpdate(ctx, orderID)
		if err != nil {
			return repo.LoadError(err, "order")
		}
		if order.BuyerID != buyerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another buyer")
		}
		if !order.Status.Editable() {
			return pkgerrors.New(pkgerrors.CodeInvalidOperation, "order can no longer be changed").
				WithDetails(map[string]any{"current": order.Status})
		}
		if _, err := s.loadOrderableBatch(ctx, r, order.BatchID); err != nil {
			return err
		}

		if input.Items != nil && !hasPositiveQty(input.Items) {
			cancelled = true
			return s.cancel(ctx, tx, r, order, buyerID)
		}
		return s.edit(ctx, tx, r, order, buyerID, input)
	})
	if err != nil {
		return nil, repo.TxError(err, "edit order")
	}

	ctx = s.logg.WithOrderID(ctx, orderID.String())
	if cancelled {
		s.metrics.IncTransition("order", string(enums.OrderStatusPlaced), string(enums.OrderStatusCancelled))
		s.logg.Info(ctx, "order cancelled")
	} else {
		s.logg.Info(ctx, "order edited")
	}
	return s.GetOrder(ctx, orderID)
}

func (s *service) CancelOrder(ctx context.Context, orderID, buyerID uuid.UUID) (*models.Order, error) {
	return s.EditOrder(ctx, orderID, buyerID, EditOrderInput{Items: []ItemInput{}})
}

// cancel keeps the existing items so buyers can see and re-order what they had.
func (s *service) cancel(ctx context.Context, tx *gorm.DB, r Repository, order *models.Order, actorID uuid.UUID) error {
	if err := enums.OrderTransitions.Check(order.Status, enums.OrderStatusCancelled); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInvalidOperation, err, "order cannot be cancelled").
			WithDetails(map[string]any{"current": order.Status, "target": enums.OrderStatusCancelled})
	}
	now := s.now().UTC()
	if err := r.UpdateOrder(ctx, order.ID, map[string]any{
		"status":           enums.OrderStatusCancelled,
		"estimated_total":  decimal.Zero,
		"facilitation_amt": decimal.Zero,
		"cancelled_at":     now,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
	}
	return s.events.Append(ctx, tx, eventlog.Entry{
		EntityType: enums.EventEntityTypeOrder,
		EntityID:   order.ID,
		Action:     enums.EventActionOrderCancelled,
		Metadata: map[string]any{
			"from":           order.Status,
			"to":             enums.OrderStatusCancelled,
			"previous_total": order.EstimatedTotal,
		},
		ActorID: actorID,
	})
}

func (s *service) edit(ctx context.Context, tx *gorm.DB, r Repository, order *models.Order, actorID uuid.UUID, input EditOrderInput) error {
	updates := map[string]any{}
	summary := newDiffSummary()

	if input.FulfillmentType != nil && *input.FulfillmentType != order.FulfillmentType {
		updates["fulfillment_type"] = *input.FulfillmentType
		summary.FulfillmentType = &fulfillmentChange{From: order.FulfillmentType, To: *input.FulfillmentType}
	}

	if input.Items != nil {
		lines := positiveItems(input.Items)
		priced, err := s.priceItems(ctx, r, order.BatchID, lines)
		if err != nil {
			return err
		}
		summary.itemsDiff(order.Items, lines)

		if err := r.DeleteItems(ctx, order.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace order items")
		}
		if err := r.CreateItems(ctx, priced.orderItems(order.ID)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace order items")
		}
		updates["estimated_total"] = priced.quote.EstimatedTotal
		updates["facilitation_amt"] = priced.quote.FacilitationAmt
	}

	if len(updates) > 0 {
		if err := r.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}
	}
	return s.events.Append(ctx, tx, eventlog.Entry{
		EntityType: enums.EventEntityTypeOrder,
		EntityID:   order.ID,
		Action:     enums.EventActionOrderEdited,
		Metadata:   summary,
		ActorID:    actorID,
	})
}

// loadOrderableBatch enforces that the batch exists, is OPEN and before cutoff.
func (s *service) loadOrderableBatch(ctx context.Context, r Repository, batchID uuid.UUID) (*models.Batch, error) {
	batch, err := r.FindBatch(ctx, batchID)
	if err != nil {
		return nil, repo.LoadError(err, "batch")
	}
	if batch.Status != enums.BatchStatusOpen {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidOperation, "batch is not accepting orders").
			WithDetails(map[string]any{"current": batch.Status})
	}
	if !batch.AcceptsOrders(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeCutoffExpired, "batch cutoff has passed").
			WithDetails(map[string]any{"cutoff_at": batch.CutoffAt})
	}
	return batch, nil
}

func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		return nil, repo.LoadError(err, "order")
	}
	return order, nil
}

func (s *service) GetBuyerOrder(ctx context.Context, orderID, buyerID uuid.UUID) (*models.Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != buyerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another buyer")
	}
	return order, nil
}

func (s *service) ListBatchOrders(ctx context.Context, batchID uuid.UUID, status *enums.OrderStatus, params pagination.Params) (pagination.Page[models.Order], error) {
	if status != nil && !status.IsValid() {
		return pagination.Page[models.Order]{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return pagination.Page[models.Order]{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.ListBatchOrders(ctx, batchID, status, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return pagination.Page[models.Order]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list batch orders")
	}
	return pagination.BuildPage(rows, params.Limit, orderCursor), nil
}

func (s *service) ListBuyerOrders(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (pagination.Page[models.Order], error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return pagination.Page[models.Order]{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.ListBuyerOrders(ctx, buyerID, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return pagination.Page[models.Order]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list buyer orders")
	}
	return pagination.BuildPage(rows, params.Limit, orderCursor), nil
}

func orderCursor(o models.Order) pagination.Cursor {
	return pagination.Cursor{CreatedAt: o.CreatedAt, ID: o.ID}
}
