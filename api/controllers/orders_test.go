package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/farmbatch-backend/internal/orders"
	"github.com/angelmondragon/farmbatch-backend/pkg/db/models"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmbatch-backend/pkg/errors"
	"github.com/angelmondragon/farmbatch-backend/pkg/pagination"
)

type stubOrders struct {
	orders.Service
	createFn    func(ctx context.Context, input orders.CreateOrderInput) (*models.Order, error)
	editFn      func(ctx context.Context, orderID, buyerID uuid.UUID, input orders.EditOrderInput) (*models.Order, error)
	cancelFn    func(ctx context.Context, orderID, buyerID uuid.UUID) (*models.Order, error)
	buyerGetFn  func(ctx context.Context, orderID, buyerID uuid.UUID) (*models.Order, error)
	buyerListFn func(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (pagination.Page[models.Order], error)
	batchListFn func(ctx context.Context, batchID uuid.UUID, status *enums.OrderStatus, params pagination.Params) (pagination.Page[models.Order], error)
}

func (s stubOrders) CreateOrder(ctx context.Context, input orders.CreateOrderInput) (*models.Order, error) {
	return s.createFn(ctx, input)
}

func (s stubOrders) EditOrder(ctx context.Context, orderID, buyerID uuid.UUID, input orders.EditOrderInput) (*models.Order, error) {
	return s.editFn(ctx, orderID, buyerID, input)
}

func (s stubOrders) CancelOrder(ctx context.Context, orderID, buyerID uuid.UUID) (*models.Order, error) {
	return s.cancelFn(ctx, orderID, buyerID)
}

func (s stubOrders) GetBuyerOrder(ctx context.Context, orderID, buyerID uuid.UUID) (*models.Order, error) {
	return s.buyerGetFn(ctx, orderID, buyerID)
}

func (s stubOrders) ListBatchOrders(ctx context.Context, batchID uuid.UUID, status *enums.OrderStatus, params pagination.Params) (pagination.Page[models.Order], error) {
	return s.batchListFn(ctx, batchID, status, params)
}

func (s stubOrders) ListBuyerOrders(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (pagination.Page[models.Order], error) {
	return s.buyerListFn(ctx, buyerID, params)
}

func TestBuyerCreateOrder(t *testing.T) {
	buyer := uuid.New()
	batchID := uuid.New()
	bpID := uuid.New()
	svc := stubOrders{createFn: func(ctx context.Context, input orders.CreateOrderInput) (*models.Order, error) {
		if input.BuyerID != buyer || input.BatchID != batchID {
			t.Fatalf("unexpected ids %+v", input)
		}
		if input.FulfillmentType != enums.FulfillmentTypePickup {
			t.Fatalf("unexpected fulfillment %s", input.FulfillmentType)
		}
		if len(input.Items) != 1 || input.Items[0].BatchProductID != bpID || !input.Items[0].OrderedQty.Equal(decimal.RequireFromString("2.5")) {
			t.Fatalf("unexpected items %+v", input.Items)
		}
		return &models.Order{ID: uuid.New(), BatchID: batchID, BuyerID: buyer, Status: enums.OrderStatusPlaced}, nil
	}}
	body := `{"fulfillment_type":"pickup","items":[{"batch_product_id":"` + bpID.String() + `","ordered_qty":"2.5"}]}`
	req := withActor(withURLParams(newJSONRequest(http.MethodPost, "/", body), "batchId", batchID.String()), buyer)
	resp := serve(BuyerCreateOrder(svc, nil), req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if got := decodeData[orders.OrderDTO](t, resp); got.Status != enums.OrderStatusPlaced {
		t.Fatalf("unexpected status %s", got.Status)
	}
}

func TestBuyerCreateOrderRequiresItems(t *testing.T) {
	req := withActor(withURLParams(newJSONRequest(http.MethodPost, "/", `{"fulfillment_type":"PICKUP","items":[]}`), "batchId", uuid.NewString()), uuid.New())
	resp := serve(BuyerCreateOrder(stubOrders{}, nil), req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestBuyerCreateOrderDuplicate(t *testing.T) {
	svc := stubOrders{createFn: func(ctx context.Context, input orders.CreateOrderInput) (*models.Order, error) {
		return nil, pkgerrors.New(pkgerrors.CodeDuplicateOrder, "buyer already has an active order in this batch")
	}}
	body := `{"fulfillment_type":"PICKUP","items":[{"batch_product_id":"` + uuid.NewString() + `","ordered_qty":1}]}`
	req := withActor(withURLParams(newJSONRequest(http.MethodPost, "/", body), "batchId", uuid.NewString()), uuid.New())
	resp := serve(BuyerCreateOrder(svc, nil), req)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	if code := errorCode(t, resp); code != string(pkgerrors.CodeDuplicateOrder) {
		t.Fatalf("unexpected code %s", code)
	}
}

func TestBuyerEditOrderItemsPresence(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantNil   bool
		wantLines int
	}{
		{name: "omitted", body: `{"fulfillment_type":"DELIVERY"}`, wantNil: true},
		{name: "empty", body: `{"items":[]}`, wantLines: 0},
		{name: "one line", body: `{"items":[{"batch_product_id":"` + uuid.NewString() + `","ordered_qty":3}]}`, wantLines: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := stubOrders{editFn: func(ctx context.Context, orderID, buyerID uuid.UUID, input orders.EditOrderInput) (*models.Order, error) {
				if (input.Items == nil) != tt.wantNil {
					t.Fatalf("expected nil items=%v got %v", tt.wantNil, input.Items)
				}
				if !tt.wantNil && len(input.Items) != tt.wantLines {
					t.Fatalf("expected %d lines got %d", tt.wantLines, len(input.Items))
				}
				return &models.Order{ID: orderID, BuyerID: buyerID}, nil
			}}
			req := withActor(withURLParams(newJSONRequest(http.MethodPatch, "/", tt.body), "orderId", uuid.NewString()), uuid.New())
			resp := serve(BuyerEditOrder(svc, nil), req)
			if resp.Code != http.StatusOK {
				t.Fatalf("expected 200 got %d", resp.Code)
			}
		})
	}
}

func TestBuyerCancelOrderForbidden(t *testing.T) {
	svc := stubOrders{cancelFn: func(ctx context.Context, orderID, buyerID uuid.UUID) (*models.Order, error) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another buyer")
	}}
	req := withActor(withURLParams(newJSONRequest(http.MethodPost, "/", ""), "orderId", uuid.NewString()), uuid.New())
	resp := serve(BuyerCancelOrder(svc, nil), req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestBuyerListOrdersScopedToActor(t *testing.T) {
	buyer := uuid.New()
	svc := stubOrders{buyerListFn: func(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (pagination.Page[models.Order], error) {
		if buyerID != buyer {
			t.Fatalf("unexpected buyer %s", buyerID)
		}
		if params.Limit != pagination.DefaultLimit {
			t.Fatalf("unexpected limit %d", params.Limit)
		}
		return pagination.Page[models.Order]{Items: []models.Order{{ID: uuid.New(), BuyerID: buyer}}}, nil
	}}
	resp := serve(BuyerListOrders(svc, nil), withActor(newJSONRequest(http.MethodGet, "/", ""), buyer))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	got := decodeData[pagination.Page[orders.OrderDTO]](t, resp)
	if len(got.Items) != 1 || got.Items[0].BuyerID != buyer {
		t.Fatalf("unexpected page %+v", got)
	}
}

func TestAdminListBatchOrdersUppercasesStatus(t *testing.T) {
	batchID := uuid.New()
	var got *enums.OrderStatus
	svc := stubOrders{batchListFn: func(ctx context.Context, id uuid.UUID, status *enums.OrderStatus, params pagination.Params) (pagination.Page[models.Order], error) {
		got = status
		return pagination.Page[models.Order]{}, nil
	}}

	req := withURLParams(newJSONRequest(http.MethodGet, "/?status=placed", ""), "batchId", batchID.String())
	resp := serve(AdminListBatchOrders(svc, nil), req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if got == nil || *got != enums.OrderStatusPlaced {
		t.Fatalf("expected PLACED filter, got %v", got)
	}

	req = withURLParams(newJSONRequest(http.MethodGet, "/?status=shipped", ""), "batchId", batchID.String())
	if resp := serve(AdminListBatchOrders(svc, nil), req); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", resp.Code)
	}
}
