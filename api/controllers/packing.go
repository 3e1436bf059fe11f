package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/farmbatch-backend/api/responses"
	"github.com/angelmondragon/farmbatch-backend/api/validators"
	"github.com/angelmondragon/farmbatch-backend/internal/orders"
	"github.com/angelmondragon/farmbatch-backend/internal/packing"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmbatch-backend/pkg/errors"
	"github.com/angelmondragon/farmbatch-backend/pkg/logger"
)

type packingItemRequest struct {
	ID       uuid.UUID       `json:"id" validate:"required"`
	FinalQty decimal.Decimal `json:"final_qty"`
}

type packingRequest struct {
	Status string               `json:"status" validate:"required"`
	Items  []packingItemRequest `json:"items,omitempty" validate:"omitempty,max=100,dive"`
}

// AdminUpdatePacking moves an order through PACKED → DISTRIBUTED, optionally
// recording final weighed quantities per line.
func AdminUpdatePacking(svc packing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "packing service unavailable"))
			return
		}
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := validators.ParseURLUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload packingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := parseEnum(*upperPtr(&payload.Status), "status", enums.ParseOrderStatus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items := make([]packing.ItemQty, 0, len(payload.Items))
		for _, item := range payload.Items {
			items = append(items, packing.ItemQty{ID: item.ID, FinalQty: item.FinalQty})
		}
		order, err := svc.UpdateStatus(r.Context(), orderID, packing.UpdateStatusInput{
			Status:  status,
			Items:   items,
			ActorID: actor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.FromModel(*order))
	}
}
