package batches

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/farmbatch-backend/internal/eventlog"
	"github.com/angelmondragon/farmbatch-backend/internal/repo"
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

type hubLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Hub, error)
}

type productLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service drives the batch lifecycle and the per-batch product catalog.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Batch, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Batch, error)
	List(ctx context.Context, filter ListFilter, params pagination.Params) (pagination.Page[models.Batch], error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Batch, error)
	Transition(ctx context.Context, id uuid.UUID, target enums.BatchStatus, actorID uuid.UUID) (*models.Batch, error)

	AddProduct(ctx context.Context, batchID uuid.UUID, input AddProductInput) (*models.BatchProduct, error)
	UpdateProduct(ctx context.Context, batchProductID uuid.UUID, input UpdateProductInput) (*models.BatchProduct, error)
	RemoveProduct(ctx context.Context, batchProductID, actorID uuid.UUID) error
	ListProducts(ctx context.Context, batchID uuid.UUID, filter enums.ActiveFilter) ([]models.BatchProduct, error)
}

type CreateInput struct {
	HubID        uuid.UUID
	Name         string
	OpenAt       time.Time
	CutoffAt     time.Time
	DeliveryDate time.Time
	ActorID      uuid.UUID
}

// UpdateInput applies only the non-nil fields.
type UpdateInput struct {
	Name         *string
	CutoffAt     *time.Time
	DeliveryDate *time.Time
	ActorID      uuid.UUID
}

// ServiceParams bundles the dependencies required to build a batch service.
type ServiceParams struct {
	Repo     Repository
	Tx       txRunner
	Events   eventlog.Appender
	Hubs     hubLookup
	Products productLookup
	Metrics  *metrics.Lifecycle
	Logger   *logger.Logger
	Now      func() time.Time
}

type service struct {
	repo     Repository
	tx       txRunner
	events   eventlog.Appender
	hubs     hubLookup
	products productLookup
	metrics  *metrics.Lifecycle
	logg     *logger.Logger
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("batches repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Events == nil {
		return nil, fmt.Errorf("event log appender required")
	}
	if params.Hubs == nil {
		return nil, fmt.Errorf("hub lookup required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product lookup required")
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
		repo:     params.Repo,
		tx:       params.Tx,
		events:   params.Events,
		hubs:     params.Hubs,
		products: params.Products,
		metrics:  params.Metrics,
		logg:     logg,
		now:      now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Batch, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	if input.OpenAt.IsZero() || input.CutoffAt.IsZero() || input.DeliveryDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "open_at, cutoff_at and delivery_date are required")
	}
	if err := validateSchedule(input.CutoffAt, input.DeliveryDate); err != nil {
		return nil, err
	}

	hub, err := s.hubs.Get(ctx, input.HubID)
	if err != nil {
		return nil, err
	}
	if !hub.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidOperation, "hub is inactive")
	}

	batch := &models.Batch{
		HubID:        hub.ID,
		Name:         name,
		Status:       enums.BatchStatusDraft,
		OpenAt:       input.OpenAt.UTC(),
		CutoffAt:     input.CutoffAt.UTC(),
		DeliveryDate: input.DeliveryDate.UTC(),
		CreatedBy:    input.ActorID,
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).CreateBatch(ctx, batch); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create batch")
		}
		return s.events.Append(ctx, tx, eventlog.Entry{
			EntityType: enums.EventEntityTypeBatch,
			EntityID:   batch.ID,
			Action:     enums.EventActionBatchCreated,
			Metadata: map[string]any{
				"hub_id":        hub.ID,
				"name":          name,
				"cutoff_at":     batch.CutoffAt,
				"delivery_date": batch.DeliveryDate,
			},
			ActorID: input.ActorID,
		})
	})
	if err != nil {
		return nil, repo.TxError(err, "create batch")
	}

	ctx = s.logg.WithBatchID(ctx, batch.ID.String())
	s.logg.Info(ctx, "batch created")
	batch.Hub = hub
	return batch, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Batch, error) {
	batch, err := s.repo.FindBatch(ctx, id)
	if err != nil {
		return nil, repo.LoadError(err, "batch")
	}
	return batch, nil
}

func (s *service) List(ctx context.Context, filter ListFilter, params pagination.Params) (pagination.Page[models.Batch], error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return pagination.Page[models.Batch]{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid batch status")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return pagination.Page[models.Batch]{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.ListBatches(ctx, filter, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return pagination.Page[models.Batch]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list batches")
	}
	return pagination.BuildPage(rows, params.Limit, func(b models.Batch) pagination.Cursor {
		return pagination.Cursor{CreatedAt: b.CreatedAt, ID: b.ID}
	}), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Batch, error) {
	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		updates["name"] = name
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		batch, err := r.FindBatchForUpdate(ctx, id)
		if err != nil {
			return repo.LoadError(err, "batch")
		}
		if batch.Status != enums.BatchStatusDraft {
			return pkgerrors.New(pkgerrors.CodeInvalidOperation, "batch can only be edited while DRAFT").
				WithDetails(map[string]any{"current": batch.Status})
		}

		cutoff, delivery := batch.CutoffAt, batch.DeliveryDate
		if input.CutoffAt != nil {
			cutoff = input.CutoffAt.UTC()
			updates["cutoff_at"] = cutoff
		}
		if input.DeliveryDate != nil {
			delivery = input.DeliveryDate.UTC()
			updates["delivery_date"] = delivery
		}
		if err := validateSchedule(cutoff, delivery); err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}

		if err := r.UpdateBatch(ctx, id, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update batch")
		}
		return s.events.Append(ctx, tx, eventlog.Entry{
			EntityType: enums.EventEntityTypeBatch,
			EntityID:   id,
			Action:     enums.EventActionBatchUpdated,
			Metadata:   updates,
			ActorID:    input.ActorID,
		})
	})
	if err != nil {
		return nil, repo.TxError(err, "update batch")
	}
	return s.Get(ctx, id)
}

// Transition moves a batch one step along BatchTransitions. Opening a batch also
// requires its cutoff to still be in the future.
func (s *service) Transition(ctx context.Context, id uuid.UUID, target enums.BatchStatus, actorID uuid.UUID) (*models.Batch, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid batch status")
	}

	var from enums.BatchStatus
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		batch, err := r.FindBatchForUpdate(ctx, id)
		if err != nil {
			return repo.LoadError(err, "batch")
		}
		from = batch.Status

		if err := enums.BatchTransitions.Check(from, target); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInvalidTransition, err, fmt.Sprintf("batch cannot move from %s to %s", from, target)).
				WithDetails(map[string]any{"current": from, "target": target})
		}
		if from == enums.BatchStatusDraft && target == enums.BatchStatusOpen && !batch.CutoffAt.After(s.now()) {
			return pkgerrors.New(pkgerrors.CodeCutoffExpired, "batch cutoff has already passed").
				WithDetails(map[string]any{"current": from, "target": target, "cutoff_at": batch.CutoffAt})
		}

		if err := r.UpdateBatch(ctx, id, map[string]any{"status": target}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update batch status")
		}
		return s.events.Append(ctx, tx, eventlog.Entry{
			EntityType: enums.EventEntityTypeBatch,
			EntityID:   id,
			Action:     enums.EventActionStatusChange,
			Metadata:   map[string]any{"from": from, "to": target},
			ActorID:    actorID,
		})
	})
	if err != nil {
		return nil, repo.TxError(err, "transition batch")
	}

	s.metrics.IncTransition("batch", string(from), string(target))
	ctx = s.logg.WithFields(s.logg.WithBatchID(ctx, id.String()), map[string]any{"from": from, "to": target})
	s.logg.Info(ctx, "batch status changed")
	return s.Get(ctx, id)
}

func validateSchedule(cutoff, delivery time.Time) error {
	if !delivery.After(cutoff) {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery_date must be after cutoff_at").
			WithDetails(map[string]any{"cutoff_at": cutoff, "delivery_date": delivery})
	}
	return nil
}
