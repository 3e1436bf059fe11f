package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/farmbatch-backend/internal/farmers"
	"github.com/angelmondragon/farmbatch-backend/internal/hubs"
	"github.com/angelmondragon/farmbatch-backend/internal/products"
	"github.com/angelmondragon/farmbatch-backend/pkg/db/models"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmbatch-backend/pkg/errors"
)

type stubHubs struct {
	hubs.Service
	createFn func(ctx context.Context, input hubs.CreateInput) (*models.Hub, error)
	listFn   func(ctx context.Context, filter enums.ActiveFilter) ([]models.Hub, error)
	getFn    func(ctx context.Context, id uuid.UUID) (*models.Hub, error)
}

func (s stubHubs) Create(ctx context.Context, input hubs.CreateInput) (*models.Hub, error) {
	return s.createFn(ctx, input)
}

func (s stubHubs) List(ctx context.Context, filter enums.ActiveFilter) ([]models.Hub, error) {
	return s.listFn(ctx, filter)
}

func (s stubHubs) Get(ctx context.Context, id uuid.UUID) (*models.Hub, error) {
	return s.getFn(ctx, id)
}

func TestAdminCreateHub(t *testing.T) {
	svc := stubHubs{createFn: func(ctx context.Context, input hubs.CreateInput) (*models.Hub, error) {
		if input.Name != "North Hub" || input.Address != "12 Market Rd" {
			t.Fatalf("unexpected input %+v", input)
		}
		return &models.Hub{ID: uuid.New(), Name: input.Name, Address: input.Address, IsActive: true}, nil
	}}
	req := newJSONRequest(http.MethodPost, "/", `{"name":"  North Hub ","address":"12 Market Rd"}`)
	resp := serve(AdminCreateHub(svc, nil), req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	got := decodeData[hubs.HubDTO](t, resp)
	if got.Name != "North Hub" || !got.IsActive {
		t.Fatalf("unexpected hub %+v", got)
	}
}

func TestAdminCreateHubValidation(t *testing.T) {
	resp := serve(AdminCreateHub(stubHubs{}, nil), newJSONRequest(http.MethodPost, "/", `{"name":"North Hub"}`))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if code := errorCode(t, resp); code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %s", code)
	}
}

func TestAdminListHubsActiveFilter(t *testing.T) {
	tests := []struct {
		query  string
		want   enums.ActiveFilter
		status int
	}{
		{query: "", want: enums.ActiveFilterActive, status: http.StatusOK},
		{query: "?active=all", want: enums.ActiveFilterAll, status: http.StatusOK},
		{query: "?active=inactive", want: enums.ActiveFilterInactive, status: http.StatusOK},
		{query: "?active=maybe", status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			svc := stubHubs{listFn: func(ctx context.Context, filter enums.ActiveFilter) ([]models.Hub, error) {
				if filter != tt.want {
					t.Fatalf("expected filter %s got %s", tt.want, filter)
				}
				return []models.Hub{{ID: uuid.New(), Name: "North"}}, nil
			}}
			resp := serve(AdminListHubs(svc, nil), newJSONRequest(http.MethodGet, "/"+tt.query, ""))
			if resp.Code != tt.status {
				t.Fatalf("expected %d got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestAdminGetHubNotFound(t *testing.T) {
	svc := stubHubs{getFn: func(ctx context.Context, id uuid.UUID) (*models.Hub, error) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "hub not found")
	}}
	req := withURLParams(newJSONRequest(http.MethodGet, "/", ""), "hubId", uuid.NewString())
	resp := serve(AdminGetHub(svc, nil), req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestAdminGetHubRejectsMalformedID(t *testing.T) {
	req := withURLParams(newJSONRequest(http.MethodGet, "/", ""), "hubId", "nope")
	resp := serve(AdminGetHub(stubHubs{}, nil), req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestHubHandlersWithoutService(t *testing.T) {
	resp := serve(AdminListHubs(nil, nil), newJSONRequest(http.MethodGet, "/", ""))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}

type stubFarmers struct {
	farmers.Service
	createFn func(ctx context.Context, input farmers.CreateInput) (*models.Farmer, error)
	listFn   func(ctx context.Context, filter farmers.ListFilter) ([]models.Farmer, error)
	updateFn func(ctx context.Context, id uuid.UUID, input farmers.UpdateInput) (*models.Farmer, error)
}

func (s stubFarmers) Create(ctx context.Context, input farmers.CreateInput) (*models.Farmer, error) {
	return s.createFn(ctx, input)
}

func (s stubFarmers) List(ctx context.Context, filter farmers.ListFilter) ([]models.Farmer, error) {
	return s.listFn(ctx, filter)
}

func (s stubFarmers) Update(ctx context.Context, id uuid.UUID, input farmers.UpdateInput) (*models.Farmer, error) {
	return s.updateFn(ctx, id, input)
}

func TestAdminCreateFarmerNormalizesRelationshipLevel(t *testing.T) {
	svc := stubFarmers{createFn: func(ctx context.Context, input farmers.CreateInput) (*models.Farmer, error) {
		if input.RelationshipLevel != enums.RelationshipLevelFamily {
			t.Fatalf("unexpected level %s", input.RelationshipLevel)
		}
		if input.UPIID == nil || *input.UPIID != "ravi@upi" {
			t.Fatalf("unexpected upi %v", input.UPIID)
		}
		return &models.Farmer{ID: uuid.New(), Name: input.Name, RelationshipLevel: input.RelationshipLevel}, nil
	}}
	body := `{"name":"Ravi","location":"Nashik","relationship_level":"family","upi_id":" ravi@upi "}`
	resp := serve(AdminCreateFarmer(svc, nil), newJSONRequest(http.MethodPost, "/", body))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
}

func TestAdminCreateFarmerRejectsUnknownLevel(t *testing.T) {
	body := `{"name":"Ravi","location":"Nashik","relationship_level":"cousin"}`
	resp := serve(AdminCreateFarmer(stubFarmers{}, nil), newJSONRequest(http.MethodPost, "/", body))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminListFarmersFilters(t *testing.T) {
	svc := stubFarmers{listFn: func(ctx context.Context, filter farmers.ListFilter) ([]models.Farmer, error) {
		if filter.Active != enums.ActiveFilterAll {
			t.Fatalf("unexpected active filter %s", filter.Active)
		}
		if filter.RelationshipLevel == nil || *filter.RelationshipLevel != enums.RelationshipLevelFriend {
			t.Fatalf("unexpected level %v", filter.RelationshipLevel)
		}
		if filter.Search != "ravi" {
			t.Fatalf("unexpected search %q", filter.Search)
		}
		return nil, nil
	}}
	resp := serve(AdminListFarmers(svc, nil), newJSONRequest(http.MethodGet, "/?active=all&relationship_level=FRIEND&q=ravi", ""))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := decodeData[[]farmers.FarmerDTO](t, resp); len(got) != 0 {
		t.Fatalf("expected empty list got %v", got)
	}
}

func TestAdminUpdateFarmerPartial(t *testing.T) {
	farmerID := uuid.New()
	svc := stubFarmers{updateFn: func(ctx context.Context, id uuid.UUID, input farmers.UpdateInput) (*models.Farmer, error) {
		if id != farmerID {
			t.Fatalf("unexpected id %s", id)
		}
		if input.Name != nil || input.Location != nil {
			t.Fatalf("expected untouched name and location, got %+v", input)
		}
		if input.IsActive == nil || *input.IsActive {
			t.Fatalf("expected is_active=false, got %v", input.IsActive)
		}
		return &models.Farmer{ID: id}, nil
	}}
	req := withURLParams(newJSONRequest(http.MethodPatch, "/", `{"is_active":false}`), "farmerId", farmerID.String())
	resp := serve(AdminUpdateFarmer(svc, nil), req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

type stubProducts struct {
	products.Service
	createFn func(ctx context.Context, input products.CreateInput) (*models.Product, error)
	listFn   func(ctx context.Context, filter products.ListFilter) ([]models.Product, error)
	deleteFn func(ctx context.Context, id uuid.UUID) error
}

func (s stubProducts) Create(ctx context.Context, input products.CreateInput) (*models.Product, error) {
	return s.createFn(ctx, input)
}

func (s stubProducts) List(ctx context.Context, filter products.ListFilter) ([]models.Product, error) {
	return s.listFn(ctx, filter)
}

func (s stubProducts) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(ctx, id)
}

func TestAdminCreateProduct(t *testing.T) {
	farmerID := uuid.New()
	svc := stubProducts{createFn: func(ctx context.Context, input products.CreateInput) (*models.Product, error) {
		if input.FarmerID != farmerID || input.Unit != enums.ProductUnitKg {
			t.Fatalf("unexpected input %+v", input)
		}
		if input.AvailableFrom == nil || input.AvailableTo == nil {
			t.Fatalf("expected season window")
		}
		return &models.Product{ID: uuid.New(), FarmerID: farmerID, Name: input.Name, Unit: input.Unit}, nil
	}}
	body := `{"farmer_id":"` + farmerID.String() + `","name":"Tomatoes","unit":"kg","available_from":"2026-01-01T00:00:00Z","available_to":"2026-03-31T00:00:00Z"}`
	resp := serve(AdminCreateProduct(svc, nil), newJSONRequest(http.MethodPost, "/", body))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	got := decodeData[products.ProductDTO](t, resp)
	if got.Unit != enums.ProductUnitKg {
		t.Fatalf("unexpected unit %s", got.Unit)
	}
}

func TestAdminListProductsByFarmer(t *testing.T) {
	farmerID := uuid.New()
	svc := stubProducts{listFn: func(ctx context.Context, filter products.ListFilter) ([]models.Product, error) {
		if filter.FarmerID == nil || *filter.FarmerID != farmerID {
			t.Fatalf("unexpected farmer filter %v", filter.FarmerID)
		}
		return []models.Product{{ID: uuid.New(), FarmerID: farmerID}}, nil
	}}
	resp := serve(AdminListProducts(svc, nil), newJSONRequest(http.MethodGet, "/?farmer_id="+farmerID.String(), ""))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := decodeData[[]products.ProductDTO](t, resp); len(got) != 1 {
		t.Fatalf("expected one product got %d", len(got))
	}
}

func TestAdminDeleteProduct(t *testing.T) {
	productID := uuid.New()
	referenced := false
	svc := stubProducts{deleteFn: func(ctx context.Context, id uuid.UUID) error {
		if referenced {
			return pkgerrors.New(pkgerrors.CodeInvalidOperation, "product is referenced by a batch")
		}
		return nil
	}}

	req := withURLParams(newJSONRequest(http.MethodDelete, "/", ""), "productId", productID.String())
	if resp := serve(AdminDeleteProduct(svc, nil), req); resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", resp.Code)
	}

	referenced = true
	req = withURLParams(newJSONRequest(http.MethodDelete, "/", ""), "productId", productID.String())
	resp := serve(AdminDeleteProduct(svc, nil), req)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
	if code := errorCode(t, resp); code != string(pkgerrors.CodeInvalidOperation) {
		t.Fatalf("unexpected code %s", code)
	}
}
