package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/farmbatch-backend/api/responses"
	"github.com/angelmondragon/farmbatch-backend/api/validators"
	"github.com/angelmondragon/farmbatch-backend/internal/batches"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmbatch-backend/pkg/errors"
	"github.com/angelmondragon/farmbatch-backend/pkg/logger"
)

type addBatchProductRequest struct {
	ProductID           uuid.UUID        `json:"product_id" validate:"required"`
	PricePerUnit        decimal.Decimal  `json:"price_per_unit"`
	FacilitationPercent decimal.Decimal  `json:"facilitation_percent"`
	MinOrderQty         decimal.Decimal  `json:"min_order_qty"`
	MaxOrderQty         *decimal.Decimal `json:"max_order_qty,omitempty"`
}

type updateBatchProductRequest struct {
	PricePerUnit        *decimal.Decimal `json:"price_per_unit,omitempty"`
	FacilitationPercent *decimal.Decimal `json:"facilitation_percent,omitempty"`
	MinOrderQty         *decimal.Decimal `json:"min_order_qty,omitempty"`
	MaxOrderQty         *decimal.Decimal `json:"max_order_qty,omitempty"`
	ClearMaxOrderQty    bool             `json:"clear_max_order_qty,omitempty"`
	IsActive            *bool            `json:"is_active,omitempty"`
}

func AdminListBatchProducts(svc batches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "batches service unavailable"))
			return
		}
		batchID, err := validators.ParseURLUUID(r, "batchId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter, err := activeFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListProducts(r.Context(), batchID, filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, batches.ProductsFromModels(rows))
	}
}

func AdminAddBatchProduct(svc batches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "batches service unavailable"))
			return
		}
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		batchID, err := validators.ParseURLUUID(r, "batchId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload addBatchProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bp, err := svc.AddProduct(r.Context(), batchID, batches.AddProductInput{
			ProductID:           payload.ProductID,
			PricePerUnit:        payload.PricePerUnit,
			FacilitationPercent: payload.FacilitationPercent,
			MinOrderQty:         payload.MinOrderQty,
			MaxOrderQty:         payload.MaxOrderQty,
			ActorID:             actor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, batches.ProductFromModel(*bp))
	}
}

func AdminUpdateBatchProduct(svc batches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "batches service unavailable"))
			return
		}
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseURLUUID(r, "batchProductId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateBatchProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bp, err := svc.UpdateProduct(r.Context(), id, batches.UpdateProductInput{
			PricePerUnit:        payload.PricePerUnit,
			FacilitationPercent: payload.FacilitationPercent,
			MinOrderQty:         payload.MinOrderQty,
			MaxOrderQty:         payload.MaxOrderQty,
			ClearMaxOrderQty:    payload.ClearMaxOrderQty,
			IsActive:            payload.IsActive,
			ActorID:             actor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, batches.ProductFromModel(*bp))
	}
}

func AdminRemoveBatchProduct(svc batches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "batches service unavailable"))
			return
		}
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseURLUUID(r, "batchProductId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.RemoveProduct(r.Context(), id, actor); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// BuyerListBatchProducts lists the active offers of an OPEN batch.
func BuyerListBatchProducts(svc batches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "batches service unavailable"))
			return
		}
		batch, err := openBatch(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListProducts(r.Context(), batch.ID, enums.ActiveFilterActive)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, batches.ProductsFromModels(rows))
	}
}
