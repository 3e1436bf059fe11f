package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/farmbatch-backend/api/responses"
	"github.com/angelmondragon/farmbatch-backend/api/validators"
	"github.com/angelmondragon/farmbatch-backend/internal/batches"
	"github.com/angelmondragon/farmbatch-backend/pkg/db/models"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmbatch-backend/pkg/errors"
	"github.com/angelmondragon/farmbatch-backend/pkg/logger"
	"github.com/angelmondragon/farmbatch-backend/pkg/pagination"
)

type createBatchRequest struct {
	HubID        uuid.UUID `json:"hub_id" validate:"required"`
	Name         string    `json:"name" validate:"required,max=120"`
	OpenAt       time.Time `json:"open_at" validate:"required"`
	CutoffAt     time.Time `json:"cutoff_at" validate:"required"`
	DeliveryDate time.Time `json:"delivery_date" validate:"required"`
}

type updateBatchRequest struct {
	Name         *string    `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	CutoffAt     *time.Time `json:"cutoff_at,omitempty"`
	DeliveryDate *time.Time `json:"delivery_date,omitempty"`
}

type transitionBatchRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminListBatches pages through batches, optionally narrowed by ?hub_id= and ?status=.
func AdminListBatches(svc batches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "batches service unavailable"))
			return
		}
		hubID, err := validators.ParseQueryUUID(r, "hub_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := queryEnum(r, "status", enums.ParseBatchStatus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.List(r.Context(), batches.ListFilter{HubID: hubID, Status: status}, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pagination.MapPage(page, batches.FromModel))
	}
}

func AdminCreateBatch(svc batches.Service, logg *logger.Logger) http.HandlerFunc {
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
		var payload createBatchRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		batch, err := svc.Create(r.Context(), batches.CreateInput{
			HubID:        payload.HubID,
			Name:         validators.SanitizeString(payload.Name, 120),
			OpenAt:       payload.OpenAt,
			CutoffAt:     payload.CutoffAt,
			DeliveryDate: payload.DeliveryDate,
			ActorID:      actor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, batches.FromModel(*batch))
	}
}

func AdminGetBatch(svc batches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "batches service unavailable"))
			return
		}
		id, err := validators.ParseURLUUID(r, "batchId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		batch, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, batches.FromModel(*batch))
	}
}

func AdminUpdateBatch(svc batches.Service, logg *logger.Logger) http.HandlerFunc {
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
		id, err := validators.ParseURLUUID(r, "batchId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateBatchRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		batch, err := svc.Update(r.Context(), id, batches.UpdateInput{
			Name:         trimmedPtr(payload.Name, 120),
			CutoffAt:     payload.CutoffAt,
			DeliveryDate: payload.DeliveryDate,
			ActorID:      actor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, batches.FromModel(*batch))
	}
}

// AdminTransitionBatch moves a batch one step along DRAFT, OPEN, CLOSED, COLLECTED, DELIVERED, SETTLED.
func AdminTransitionBatch(svc batches.Service, logg *logger.Logger) http.HandlerFunc {
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
		id, err := validators.ParseURLUUID(r, "batchId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload transitionBatchRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		target, err := parseEnum(*upperPtr(&payload.Status), "status", enums.ParseBatchStatus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		batch, err := svc.Transition(r.Context(), id, target, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, batches.FromModel(*batch))
	}
}

// BuyerListBatches only ever returns OPEN batches.
func BuyerListBatches(svc batches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "batches service unavailable"))
			return
		}
		hubID, err := validators.ParseQueryUUID(r, "hub_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		open := enums.BatchStatusOpen
		page, err := svc.List(r.Context(), batches.ListFilter{HubID: hubID, Status: &open}, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pagination.MapPage(page, batches.FromModel))
	}
}

func BuyerGetBatch(svc batches.Service, logg *logger.Logger) http.HandlerFunc {
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
		responses.WriteSuccess(w, batches.FromModel(*batch))
	}
}

// openBatch loads the {batchId} batch and hides it unless it is accepting orders.
func openBatch(r *http.Request, svc batches.Service) (*models.Batch, error) {
	id, err := validators.ParseURLUUID(r, "batchId")
	if err != nil {
		return nil, err
	}
	batch, err := svc.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if batch.Status != enums.BatchStatusOpen {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "batch not found")
	}
	return batch, nil
}
