package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/farmbatch-backend/internal/eventlog"
	"github.com/angelmondragon/farmbatch-backend/internal/packing"
	"github.com/angelmondragon/farmbatch-backend/internal/payments"
	"github.com/angelmondragon/farmbatch-backend/internal/payouts"
	"github.com/angelmondragon/farmbatch-backend/internal/procurement"
	"github.com/angelmondragon/farmbatch-backend/pkg/db/models"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmbatch-backend/pkg/errors"
)

type stubPayments struct {
	payments.Service
	logFn func(ctx context.Context, orderID uuid.UUID, input payments.LogPaymentInput) (*payments.Result, error)
}

func (s stubPayments) LogPayment(ctx context.Context, orderID uuid.UUID, input payments.LogPaymentInput) (*payments.Result, error) {
	return s.logFn(ctx, orderID, input)
}

func TestAdminLogPayment(t *testing.T) {
	actor := uuid.New()
	orderID := uuid.New()
	svc := stubPayments{logFn: func(ctx context.Context, id uuid.UUID, input payments.LogPaymentInput) (*payments.Result, error) {
		if id != orderID || input.ActorID != actor {
			t.Fatalf("unexpected ids %s %s", id, input.ActorID)
		}
		if input.Stage != enums.PaymentStageCommitment || input.Method != enums.PaymentMethodUPI {
			t.Fatalf("unexpected stage/method %s %s", input.Stage, input.Method)
		}
		if input.ReferenceID == nil || *input.ReferenceID != "UTR123" {
			t.Fatalf("unexpected reference %v", input.ReferenceID)
		}
		return &payments.Result{
			Payment:     &payments.PaymentDTO{ID: uuid.New(), OrderID: id, Amount: input.Amount, Stage: input.Stage},
			OrderStatus: enums.OrderStatusCommitmentPaid,
		}, nil
	}}
	body := `{"amount":"150.00","method":"upi","stage":"commitment","reference_id":"UTR123"}`
	req := withActor(withURLParams(newJSONRequest(http.MethodPost, "/", body), "orderId", orderID.String()), actor)
	resp := serve(AdminLogPayment(svc, nil), req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	got := decodeData[payments.Result](t, resp)
	if got.OrderStatus != enums.OrderStatusCommitmentPaid {
		t.Fatalf("unexpected order status %s", got.OrderStatus)
	}
}

func TestAdminLogPaymentDuplicateStage(t *testing.T) {
	svc := stubPayments{logFn: func(ctx context.Context, id uuid.UUID, input payments.LogPaymentInput) (*payments.Result, error) {
		return nil, pkgerrors.New(pkgerrors.CodeDuplicatePayment, "commitment payment already recorded")
	}}
	req := withActor(withURLParams(newJSONRequest(http.MethodPost, "/", `{"amount":10,"method":"CASH","stage":"COMMITMENT"}`), "orderId", uuid.NewString()), uuid.New())
	resp := serve(AdminLogPayment(svc, nil), req)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

type stubPacking struct {
	fn func(ctx context.Context, orderID uuid.UUID, input packing.UpdateStatusInput) (*models.Order, error)
}

func (s stubPacking) UpdateStatus(ctx context.Context, orderID uuid.UUID, input packing.UpdateStatusInput) (*models.Order, error) {
	return s.fn(ctx, orderID, input)
}

func TestAdminUpdatePacking(t *testing.T) {
	itemID := uuid.New()
	svc := stubPacking{fn: func(ctx context.Context, orderID uuid.UUID, input packing.UpdateStatusInput) (*models.Order, error) {
		if input.Status != enums.OrderStatusPacked {
			t.Fatalf("unexpected status %s", input.Status)
		}
		if len(input.Items) != 1 || input.Items[0].ID != itemID || !input.Items[0].FinalQty.Equal(decimal.RequireFromString("1.8")) {
			t.Fatalf("unexpected items %+v", input.Items)
		}
		return &models.Order{ID: orderID, Status: input.Status}, nil
	}}
	body := `{"status":"packed","items":[{"id":"` + itemID.String() + `","final_qty":"1.8"}]}`
	req := withActor(withURLParams(newJSONRequest(http.MethodPost, "/", body), "orderId", uuid.NewString()), uuid.New())
	resp := serve(AdminUpdatePacking(svc, nil), req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

type stubProcurement struct {
	report *procurement.Report
}

func (s stubProcurement) Report(ctx context.Context, batchID uuid.UUID) (*procurement.Report, error) {
	return s.report, nil
}

func TestAdminProcurementReport(t *testing.T) {
	batchID := uuid.New()
	svc := stubProcurement{report: &procurement.Report{BatchID: batchID}}
	req := withURLParams(newJSONRequest(http.MethodGet, "/", ""), "batchId", batchID.String())
	resp := serve(AdminProcurementReport(svc, nil), req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := decodeData[procurement.Report](t, resp); got.BatchID != batchID {
		t.Fatalf("unexpected batch %s", got.BatchID)
	}
}

type stubPayouts struct {
	payouts.Service
	logFn func(ctx context.Context, batchID uuid.UUID, input payouts.LogPayoutInput) (*models.FarmerPayout, error)
}

func (s stubPayouts) LogPayout(ctx context.Context, batchID uuid.UUID, input payouts.LogPayoutInput) (*models.FarmerPayout, error) {
	return s.logFn(ctx, batchID, input)
}

func TestAdminLogPayout(t *testing.T) {
	actor := uuid.New()
	farmerID := uuid.New()
	svc := stubPayouts{logFn: func(ctx context.Context, batchID uuid.UUID, input payouts.LogPayoutInput) (*models.FarmerPayout, error) {
		if input.FarmerID != farmerID || input.UPIReference != "UPI-77" || input.ActorID != actor {
			t.Fatalf("unexpected input %+v", input)
		}
		return &models.FarmerPayout{ID: uuid.New(), BatchID: batchID, FarmerID: farmerID, Amount: input.Amount}, nil
	}}
	body := `{"farmer_id":"` + farmerID.String() + `","amount":"980.00","upi_reference":"UPI-77"}`
	req := withActor(withURLParams(newJSONRequest(http.MethodPost, "/", body), "batchId", uuid.NewString()), actor)
	resp := serve(AdminLogPayout(svc, nil), req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
}

func TestAdminLogPayoutRequiresReference(t *testing.T) {
	body := `{"farmer_id":"` + uuid.NewString() + `","amount":"980.00"}`
	req := withActor(withURLParams(newJSONRequest(http.MethodPost, "/", body), "batchId", uuid.NewString()), uuid.New())
	resp := serve(AdminLogPayout(stubPayouts{}, nil), req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

type stubEvents struct {
	eventlog.Service
	listFn func(ctx context.Context, entityType enums.EventEntityType, entityID uuid.UUID) ([]models.EventLog, error)
}

func (s stubEvents) ListForEntity(ctx context.Context, entityType enums.EventEntityType, entityID uuid.UUID) ([]models.EventLog, error) {
	return s.listFn(ctx, entityType, entityID)
}

func TestAdminListEvents(t *testing.T) {
	entityID := uuid.New()
	svc := stubEvents{listFn: func(ctx context.Context, entityType enums.EventEntityType, id uuid.UUID) ([]models.EventLog, error) {
		if entityType != enums.EventEntityTypeBatchProduct || id != entityID {
			t.Fatalf("unexpected lookup %s %s", entityType, id)
		}
		return []models.EventLog{{ID: uuid.New(), EntityType: entityType, EntityID: id, Action: enums.EventActionBatchCreated}}, nil
	}}
	req := withURLParams(newJSONRequest(http.MethodGet, "/", ""), "entityType", "batch_product", "entityId", entityID.String())
	resp := serve(AdminListEvents(svc, nil), req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := decodeData[[]eventlog.EventDTO](t, resp); len(got) != 1 {
		t.Fatalf("expected one event got %d", len(got))
	}
}

func TestAdminListEventsUnknownEntity(t *testing.T) {
	req := withURLParams(newJSONRequest(http.MethodGet, "/", ""), "entityType", "farmer", "entityId", uuid.NewString())
	resp := serve(AdminListEvents(stubEvents{}, nil), req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
