package payouts

import (
	"context"
	"fmt"
	"strings"
	"time"

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
	Reconcile(ctx context.Context, batchID uuid.UUID) (*Report, error)
	LogPayout(ctx context.Context, batchID uuid.UUID, input LogPayoutInput) (*models.FarmerPayout, error)
}

// Report is the per-farmer balance for a batch plus every payout recorded against it.
type Report struct {
	BatchID uuid.UUID       `json:"batch_id"`
	Farmers []FarmerBalance `json:"farmers"`
	Payouts []PayoutDTO     `json:"payouts"`
}

type LogPayoutInput struct {
	FarmerID     uuid.UUID
	Amount       decimal.Decimal
	UPIReference string
	PaidAt       *time.Time
	ActorID      uuid.UUID
}

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
		return nil, fmt.Errorf("payouts repository required")
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

func (s *service) Reconcile(ctx context.Context, batchID uuid.UUID) (*Report, error) {
	var report *Report
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		if _, err := r.FindBatch(ctx, batchID); err != nil {
			return repo.LoadError(err, "batch")
		}
		lines, err := r.ListOwedLines(ctx, batchID, enums.PayoutStatuses)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load owed lines")
		}
		payouts, err := r.ListPayouts(ctx, batchID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payouts")
		}
		ids := make([]uuid.UUID, 0, len(payouts))
		for _, p := range payouts {
			ids = append(ids, p.FarmerID)
		}
		names, err := r.FarmerNames(ctx, ids)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farmer names")
		}

		report = &Report{
			BatchID: batchID,
			Farmers: Reconcile(lines, payouts, names),
			Payouts: FromModels(payouts),
		}
		return nil
	})
	if err != nil {
		return nil, repo.TxError(err, "reconcile payouts")
	}
	return report, nil
}

func (s *service) LogPayout(ctx context.Context, batchID uuid.UUID, input LogPayoutInput) (*models.FarmerPayout, error) {
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	reference := strings.TrimSpace(input.UPIReference)
	if reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "upi_reference is required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	paidAt := s.now().UTC()
	if input.PaidAt != nil {
		paidAt = input.PaidAt.UTC()
	}

	payout := &models.FarmerPayout{
		BatchID:      batchID,
		FarmerID:     input.FarmerID,
		Amount:       input.Amount,
		UPIReference: reference,
		PaidAt:       paidAt,
		RecordedBy:   input.ActorID,
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		if _, err := r.FindBatch(ctx, batchID); err != nil {
			return repo.LoadError(err, "batch")
		}
		if _, err := r.FindFarmer(ctx, input.FarmerID); err != nil {
			return repo.LoadError(err, "farmer")
		}
		offers, err := r.CountFarmerOffers(ctx, batchID, input.FarmerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check farmer offers")
		}
		if offers == 0 {
			return pkgerrors.New(pkgerrors.CodeInvalidOperation, "farmer has no products in this batch").
				WithDetails(map[string]any{"batch_id": batchID, "farmer_id": input.FarmerID})
		}

		if err := r.CreatePayout(ctx, payout); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payout")
		}
		return s.events.Append(ctx, tx, eventlog.Entry{
			EntityType: enums.EventEntityTypePayout,
			EntityID:   payout.ID,
			Action:     enums.EventActionPayoutLogged,
			Metadata: map[string]any{
				"batch_id":      batchID,
				"farmer_id":     input.FarmerID,
				"amount":        input.Amount,
				"upi_reference": reference,
			},
			ActorID: input.ActorID,
		})
	})
	if err != nil {
		return nil, repo.TxError(err, "log payout")
	}

	s.metrics.IncPayout()
	ctx = s.logg.WithFields(s.logg.WithBatchID(ctx, batchID.String()), map[string]any{"farmer_id": input.FarmerID})
	s.logg.Info(ctx, "farmer payout logged")
	return payout, nil
}
