// Package packing moves paid orders through packing and distribution and records
// the quantities actually packed.
package packing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/farmbatch-backend/internal/eventlog"
	"github.com/angelmondragon/farmbatch-backend/internal/repo"
	"github.com/angelmondragon/farmbatch-backend/pkg/db/models"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmbatch-backend/pkg/errors"
	"github.com/angelmondragon/farmbatch-backend/pkg/logger"
	"github.com/angelmondragon/farmbatch-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type Service interface {
	UpdateStatus(ctx context.Context, orderID uuid.UUID, input UpdateStatusInput) (*models.Order, error)
}

type ItemQty struct {
	ID       uuid.UUID
	FinalQty decimal.Decimal
}

type UpdateStatusInput struct {
	Status  enums.OrderStatus
	Items   []ItemQty
	ActorID uuid.UUID
}

type ServiceParams struct {
	Repo    Repository
	Tx      txRunner
	Events  eventlog.Appender
	Metrics *metrics.Lifecycle
	Logger  *logger.Logger
}

type service struct {
	repo    Repository
	tx      txRunner
	events  eventlog.Appender
	metrics *metrics.Lifecycle
	logg    *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("packing repository required")
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
	return &service{
		repo:    params.Repo,
		tx:      params.Tx,
		events:  params.Events,
		metrics: params.Metrics,
		logg:    logg,
	}, nil
}

// UpdateStatus applies a PackingTransitions move. The order must already sit in
// a packing status; re-submitting the current status succeeds and still logs.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, input UpdateStatusInput) (*models.Order, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	seen := make(map[uuid.UUID]struct{}, len(input.Items))
	for _, item := range input.Items {
		if item.FinalQty.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "final_qty cannot be negative").
				WithDetails(map[string]any{"item_id": item.ID})
		}
		if _, dup := seen[item.ID]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item listed more than once").
				WithDetails(map[string]any{"item_id": item.ID})
		}
		seen[item.ID] = struct{}{}
	}

	var (
		from    enums.OrderStatus
		changed bool
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		order, err := r.FindOrderForUpdate(ctx, orderID)
		if err != nil {
			return repo.LoadError(err, "order")
		}
		from = order.Status
		if _, ok := enums.PackingTransitions[from]; !ok {
			return pkgerrors.New(pkgerrors.CodeInvalidOperation, fmt.Sprintf("order in %s cannot be packed", from)).
				WithDetails(map[string]any{"current": from, "target": input.Status})
		}

		owned := make(map[uuid.UUID]struct{}, len(order.Items))
		for _, item := range order.Items {
			owned[item.ID] = struct{}{}
		}
		for _, item := range input.Items {
			if _, ok := owned[item.ID]; !ok {
				return pkgerrors.New(pkgerrors.CodeItemNotFound, "item does not belong to this order").
					WithDetails(map[string]any{"item_id": item.ID, "order_id": orderID})
			}
		}

		if from != input.Status {
			if err := enums.PackingTransitions.Check(from, input.Status); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInvalidOperation, err, fmt.Sprintf("order cannot move from %s to %s", from, input.Status)).
					WithDetails(map[string]any{"current": from, "target": input.Status})
			}
			if err := r.UpdateOrderStatus(ctx, orderID, input.Status); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
			}
			changed = true
		}

		for _, item := range input.Items {
			if err := r.SetFinalQty(ctx, orderID, item.ID, item.FinalQty); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record final quantity")
			}
		}
		return s.events.Append(ctx, tx, eventlog.Entry{
			EntityType: enums.EventEntityTypeOrder,
			EntityID:   orderID,
			Action:     enums.EventActionStatusChange,
			Metadata: map[string]any{
				"from":          from,
				"to":            input.Status,
				"items_updated": len(input.Items),
			},
			ActorID: input.ActorID,
		})
	})
	if err != nil {
		return nil, repo.TxError(err, "update packing status")
	}

	if changed {
		s.metrics.IncTransition("order", string(from), string(input.Status))
		ctx = s.logg.WithFields(s.logg.WithOrderID(ctx, orderID.String()), map[string]any{"from": from, "to": input.Status})
		s.logg.Info(ctx, "order packing status changed")
	}

	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		return nil, repo.LoadError(err, "order")
	}
	return order, nil
}
