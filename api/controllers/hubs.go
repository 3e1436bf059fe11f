package controllers

import (
	"net/http"

	"github.com/angelmondragon/farmbatch-backend/api/responses"
	"github.com/angelmondragon/farmbatch-backend/api/validators"
	"github.com/angelmondragon/farmbatch-backend/internal/hubs"
	pkgerrors "github.com/angelmondragon/farmbatch-backend/pkg/errors"
	"github.com/angelmondragon/farmbatch-backend/pkg/logger"
)

type createHubRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Address string `json:"address" validate:"required,max=500"`
}

type updateHubRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Address  *string `json:"address,omitempty" validate:"omitempty,min=1,max=500"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// AdminListHubs lists hubs filtered by ?active=active|inactive|all.
func AdminListHubs(svc hubs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "hubs service unavailable"))
			return
		}
		filter, err := activeFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, hubs.FromModels(rows))
	}
}

func AdminCreateHub(svc hubs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "hubs service unavailable"))
			return
		}
		var payload createHubRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		hub, err := svc.Create(r.Context(), hubs.CreateInput{
			Name:    validators.SanitizeString(payload.Name, 120),
			Address: validators.SanitizeString(payload.Address, 500),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, hubs.FromModel(hub))
	}
}

func AdminGetHub(svc hubs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "hubs service unavailable"))
			return
		}
		id, err := validators.ParseURLUUID(r, "hubId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		hub, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, hubs.FromModel(hub))
	}
}

func AdminUpdateHub(svc hubs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "hubs service unavailable"))
			return
		}
		id, err := validators.ParseURLUUID(r, "hubId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateHubRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		hub, err := svc.Update(r.Context(), id, hubs.UpdateInput{
			Name:     trimmedPtr(payload.Name, 120),
			Address:  trimmedPtr(payload.Address, 500),
			IsActive: payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, hubs.FromModel(hub))
	}
}

// AdminDeactivateHub soft-deletes a hub. Its batches are untouched.
func AdminDeactivateHub(svc hubs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "hubs service unavailable"))
			return
		}
		id, err := validators.ParseURLUUID(r, "hubId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		hub, err := svc.Deactivate(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, hubs.FromModel(hub))
	}
}
