package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/farmbatch-backend/api/responses"
	"github.com/angelmondragon/farmbatch-backend/api/validators"
	"github.com/angelmondragon/farmbatch-backend/internal/farmers"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmbatch-backend/pkg/errors"
	"github.com/angelmondragon/farmbatch-backend/pkg/logger"
)

type createFarmerRequest struct {
	Name              string  `json:"name" validate:"required,max=120"`
	Phone             *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Location          string  `json:"location" validate:"required,max=200"`
	RelationshipLevel string  `json:"relationship_level" validate:"required"`
	UPIID             *string `json:"upi_id,omitempty" validate:"omitempty,max=100"`
}

type updateFarmerRequest struct {
	Name              *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Phone             *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Location          *string `json:"location,omitempty" validate:"omitempty,min=1,max=200"`
	RelationshipLevel *string `json:"relationship_level,omitempty"`
	UPIID             *string `json:"upi_id,omitempty" validate:"omitempty,max=100"`
	IsActive          *bool   `json:"is_active,omitempty"`
}

// AdminListFarmers supports ?active=, ?relationship_level= and ?q= (name search).
func AdminListFarmers(svc farmers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "farmers service unavailable"))
			return
		}
		filter, err := activeFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		level, err := queryEnum(r, "relationship_level", enums.ParseRelationshipLevel)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.List(r.Context(), farmers.ListFilter{
			Active:            filter,
			RelationshipLevel: level,
			Search:            validators.SanitizeString(r.URL.Query().Get("q"), 64),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, farmers.FromModels(rows))
	}
}

func AdminCreateFarmer(svc farmers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "farmers service unavailable"))
			return
		}
		var payload createFarmerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		level, err := parseEnum(strings.ToUpper(payload.RelationshipLevel), "relationship_level", enums.ParseRelationshipLevel)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		farmer, err := svc.Create(r.Context(), farmers.CreateInput{
			Name:              validators.SanitizeString(payload.Name, 120),
			Phone:             trimmedPtr(payload.Phone, 20),
			Location:          validators.SanitizeString(payload.Location, 200),
			RelationshipLevel: level,
			UPIID:             trimmedPtr(payload.UPIID, 100),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, farmers.FromModel(farmer))
	}
}

func AdminGetFarmer(svc farmers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "farmers service unavailable"))
			return
		}
		id, err := validators.ParseURLUUID(r, "farmerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		farmer, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, farmers.FromModel(farmer))
	}
}

func AdminUpdateFarmer(svc farmers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "farmers service unavailable"))
			return
		}
		id, err := validators.ParseURLUUID(r, "farmerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateFarmerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		level, err := parseOptionalEnum(upperPtr(payload.RelationshipLevel), "relationship_level", enums.ParseRelationshipLevel)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		farmer, err := svc.Update(r.Context(), id, farmers.UpdateInput{
			Name:              trimmedPtr(payload.Name, 120),
			Phone:             trimmedPtr(payload.Phone, 20),
			Location:          trimmedPtr(payload.Location, 200),
			RelationshipLevel: level,
			UPIID:             trimmedPtr(payload.UPIID, 100),
			IsActive:          payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, farmers.FromModel(farmer))
	}
}

// AdminDeactivateFarmer soft-deletes a farmer. Their products stay as they are.
func AdminDeactivateFarmer(svc farmers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "farmers service unavailable"))
			return
		}
		id, err := validators.ParseURLUUID(r, "farmerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		farmer, err := svc.Deactivate(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, farmers.FromModel(farmer))
	}
}
