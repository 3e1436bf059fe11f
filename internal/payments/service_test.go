package payments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/farmbatch-backend/internal/eventlog"
	"github.com/angelmondragon/farmbatch-backend/pkg/db"
	"github.com/angelmondragon/farmbatch-backend/pkg/db/dbtest"
	"github.com/angelmondragon/farmbatch-backend/pkg/db/models"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmbatch-backend/pkg/errors"
	"github.com/angelmondragon/farmbatch-backend/pkg/metrics"
)

var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (Service, *gorm.DB, *prometheus.Registry) {
	t.Helper()
	client := dbtest.Client(t)
	conn := client.DB()
	events, err := eventlog.NewService(eventlog.NewRepository(conn))
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	svc, err := NewService(ServiceParams{
		Repo:    NewRepository(conn),
		Tx:      client,
		Events:  events,
		Metrics: metrics.NewLifecycle(reg),
		Now:     func() time.Time { return testNow },
	})
	require.NoError(t, err)
	return svc, conn, reg
}

func seedOrder(t *testing.T, conn *gorm.DB, status enums.OrderStatus) *models.Order {
	t.Helper()
	hub := dbtest.SeedHub(t, conn, "North")
	batch := dbtest.SeedBatch(t, conn, hub, enums.BatchStatusOpen, testNow.Add(48*time.Hour))
	order := &models.Order{
		BatchID:         batch.ID,
		BuyerID:         uuid.New(),
		Status:          status,
		FulfillmentType: enums.FulfillmentTypePickup,
		EstimatedTotal:  decimal.NewFromInt(220),
		FacilitationAmt: decimal.NewFromInt(20),
	}
	require.NoError(t, conn.Create(order).Error)
	return order
}

func input(stage enums.PaymentStage, amount int64) LogPaymentInput {
	return LogPaymentInput{
		Amount:  decimal.NewFromInt(amount),
		Method:  enums.PaymentMethodUPI,
		Stage:   stage,
		ActorID: uuid.New(),
	}
}

func orderStatus(t *testing.T, conn *gorm.DB, id uuid.UUID) enums.OrderStatus {
	t.Helper()
	var order models.Order
	require.NoError(t, conn.Where("id = ?", id).First(&order).Error)
	return order.Status
}

func TestCommitmentThenFinal(t *testing.T) {
	svc, conn, reg := newTestService(t)
	ctx := context.Background()
	order := seedOrder(t, conn, enums.OrderStatusPlaced)

	res, err := svc.LogPayment(ctx, order.ID, input(enums.PaymentStageCommitment, 22))
	require.NoError(t, err)
	require.Equal(t, enums.OrderStatusCommitmentPaid, res.OrderStatus)
	require.Equal(t, enums.OrderStatusCommitmentPaid, orderStatus(t, conn, order.ID))
	require.True(t, res.Payment.PaidAt.Equal(testNow))

	ref := "  UPI-778  "
	final := input(enums.PaymentStageFinal, 198)
	final.ReferenceID = &ref
	res, err = svc.LogPayment(ctx, order.ID, final)
	require.NoError(t, err)
	require.Equal(t, enums.OrderStatusFullyPaid, res.OrderStatus)
	require.Equal(t, "UPI-778", *res.Payment.ReferenceID)

	payments, err := svc.ListPayments(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)

	var logged int64
	require.NoError(t, conn.Model(&models.EventLog{}).Where("entity_id = ?", order.ID).Count(&logged).Error)
	require.Equal(t, int64(2), logged)

	families, err := reg.Gather()
	require.NoError(t, err)
	found := false
	for _, mf := range families {
		if mf.GetName() == "farmbatch_payments_logged_total" {
			found = true
			require.Len(t, mf.GetMetric(), 2)
		}
	}
	require.True(t, found)

	_, err = svc.LogPayment(ctx, order.ID, input(enums.PaymentStageFinal, 1))
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeDuplicatePayment))
}

func TestFinalBeforeCommitmentRejected(t *testing.T) {
	svc, conn, _ := newTestService(t)
	order := seedOrder(t, conn, enums.OrderStatusPlaced)

	_, err := svc.LogPayment(context.Background(), order.ID, input(enums.PaymentStageFinal, 220))
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeInvalidOperation))
	require.Equal(t, enums.OrderStatusPlaced, orderStatus(t, conn, order.ID))

	var count int64
	require.NoError(t, conn.Model(&models.Payment{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestSecondCommitmentRejected(t *testing.T) {
	svc, conn, _ := newTestService(t)
	ctx := context.Background()
	order := seedOrder(t, conn, enums.OrderStatusPlaced)

	_, err := svc.LogPayment(ctx, order.ID, input(enums.PaymentStageCommitment, 22))
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = svc.LogPayment(ctx, order.ID, input(enums.PaymentStageCommitment, 22))
		require.True(t, pkgerrors.Is(err, pkgerrors.CodeDuplicatePayment))
	}

	var count int64
	require.NoError(t, conn.Model(&models.Payment{}).Where("order_id = ? AND stage = ?", order.ID, enums.PaymentStageCommitment).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestPaymentGuards(t *testing.T) {
	svc, conn, _ := newTestService(t)
	ctx := context.Background()

	cancelled := seedOrder(t, conn, enums.OrderStatusCancelled)
	_, err := svc.LogPayment(ctx, cancelled.ID, input(enums.PaymentStageCommitment, 22))
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeInvalidOperation))

	_, err = svc.LogPayment(ctx, uuid.New(), input(enums.PaymentStageCommitment, 22))
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

	_, err = svc.LogPayment(ctx, cancelled.ID, input(enums.PaymentStageCommitment, 0))
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	_, err = svc.ListPayments(ctx, uuid.New())
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestStorageRejectsDuplicateStage(t *testing.T) {
	_, conn, _ := newTestService(t)
	order := seedOrder(t, conn, enums.OrderStatusCommitmentPaid)

	payment := func() *models.Payment {
		return &models.Payment{
			OrderID: order.ID, Stage: enums.PaymentStageCommitment, Amount: decimal.NewFromInt(10),
			Method: enums.PaymentMethodCash, PaidAt: testNow, RecordedBy: uuid.New(),
		}
	}
	require.NoError(t, conn.Create(payment()).Error)
	err := conn.Create(payment()).Error
	require.True(t, db.IsUniqueViolation(err, ""))
}
