package payments

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
	"github.com/angelmondragon/farmbatch-backend/pkg/db"
	"github.com/angelmondragon/farmbatch-backend/pkg/db/models"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmbatch-backend/pkg/errors"
	"github.com/angelmondragon/farmbatch-backend/pkg/logger"
	"github.com/angelmondragon/farmbatch-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service is the manual two-stage payment ledger. Amounts are recorded as the
// operator enters them and are not reconciled against order totals.
type Service interface {
	LogPayment(ctx context.Context, orderID uuid.UUID, input LogPaymentInput) (*Result, error)
	ListPayments(ctx context.Context, orderID uuid.UUID) ([]models.Payment, error)
}

type LogPaymentInput struct {
	Amount      decimal.Decimal
	Method      enums.PaymentMethod
	Stage       enums.PaymentStage
	ReferenceID *string
	PaidAt      *time.Time
	ActorID     uuid.UUID
}

// Result is the recorded payment and the order status it produced.
type Result struct {
	Payment     *PaymentDTO       `json:"payment"`
	OrderStatus enums.OrderStatus `json:"order_status"`
}

// ServiceParams bundles the dependencies required to build a payment service.
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
		return nil, fmt.Errorf("payments repository required")
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

func targetStatus(stage enums.PaymentStage) enums.OrderStatus {
	if stage == enums.PaymentStageFinal {
		return enums.OrderStatusFullyPaid
	}
	return enums.OrderStatusCommitmentPaid
}

func eventAction(stage enums.PaymentStage) enums.EventAction {
	if stage == enums.PaymentStageFinal {
		return enums.EventActionFinalPaymentLogged
	}
	return enums.EventActionCommitmentPaymentLogged
}

func (s *service) LogPayment(ctx context.Context, orderID uuid.UUID, input LogPaymentInput) (*Result, error) {
	if !input.Stage.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment stage")
	}
	if !input.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}

	paidAt := s.now().UTC()
	if input.PaidAt != nil {
		paidAt = input.PaidAt.UTC()
	}
	var reference *string
	if input.ReferenceID != nil {
		if trimmed := strings.TrimSpace(*input.ReferenceID); trimmed != "" {
			reference = &trimmed
		}
	}

	next := targetStatus(input.Stage)
	var (
		payment *models.Payment
		from    enums.OrderStatus
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)
		order, err := r.FindOrderForUpdate(ctx, orderID)
		if err != nil {
			return repo.LoadError(err, "order")
		}
		from = order.Status
		if err := checkStage(order, input.Stage); err != nil {
			return err
		}
		if err := enums.OrderTransitions.Check(order.Status, next); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInvalidOperation, err, "order is not awaiting this payment").
				WithDetails(map[string]any{"current": order.Status, "target": next})
		}

		payment = &models.Payment{
			OrderID:     orderID,
			Stage:       input.Stage,
			Amount:      input.Amount,
			Method:      input.Method,
			ReferenceID: reference,
			PaidAt:      paidAt,
			RecordedBy:  input.ActorID,
		}
		if err := r.CreatePayment(ctx, payment); err != nil {
			if db.IsUniqueViolation(err, "") {
				return duplicatePayment(input.Stage)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment")
		}
		if err := r.UpdateOrderStatus(ctx, orderID, next); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		return s.events.Append(ctx, tx, eventlog.Entry{
			EntityType: enums.EventEntityTypeOrder,
			EntityID:   orderID,
			Action:     eventAction(input.Stage),
			Metadata: map[string]any{
				"amount":     input.Amount,
				"stage":      input.Stage,
				"method":     input.Method,
				"new_status": next,
			},
			ActorID: input.ActorID,
		})
	})
	if err != nil {
		return nil, repo.TxError(err, "log payment")
	}

	s.metrics.IncPayment(string(input.Stage), string(input.Method))
	s.metrics.IncTransition("order", string(from), string(next))
	ctx = s.logg.WithFields(s.logg.WithOrderID(ctx, orderID.String()), map[string]any{"stage": input.Stage, "status": next})
	s.logg.Info(ctx, "payment logged")
	return &Result{Payment: FromModel(payment), OrderStatus: next}, nil
}

// checkStage enforces COMMITMENT before FINAL and at most one payment per stage.
func checkStage(order *models.Order, stage enums.PaymentStage) error {
	if order.Status == enums.OrderStatusCancelled {
		return pkgerrors.New(pkgerrors.CodeInvalidOperation, "order is cancelled").
			WithDetails(map[string]any{"current": order.Status})
	}
	if order.HasPayment(stage) {
		return duplicatePayment(stage)
	}
	if stage == enums.PaymentStageFinal && !order.HasPayment(enums.PaymentStageCommitment) {
		return pkgerrors.New(pkgerrors.CodeInvalidOperation, "final payment requires a commitment payment first").
			WithDetails(map[string]any{"current": order.Status})
	}
	return nil
}

func duplicatePayment(stage enums.PaymentStage) error {
	return pkgerrors.New(pkgerrors.CodeDuplicatePayment, fmt.Sprintf("%s payment already logged", strings.ToLower(string(stage)))).
		WithDetails(map[string]any{"stage": stage})
}

func (s *service) ListPayments(ctx context.Context, orderID uuid.UUID) ([]models.Payment, error) {
	exists, err := s.repo.OrderExists(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	payments, err := s.repo.ListPayments(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	return payments, nil
}
