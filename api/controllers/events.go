package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/farmbatch-backend/api/responses"
	"github.com/angelmondragon/farmbatch-backend/api/validators"
	"github.com/angelmondragon/farmbatch-backend/internal/eventlog"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmbatch-backend/pkg/errors"
	"github.com/angelmondragon/farmbatch-backend/pkg/logger"
)

// AdminListEvents returns the audit trail of one entity, oldest first.
func AdminListEvents(svc eventlog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "event log unavailable"))
			return
		}
		entityType, err := parseEnum(strings.ToUpper(chi.URLParam(r, "entityType")), "entity_type", enums.ParseEventEntityType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entityID, err := validators.ParseURLUUID(r, "entityId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListForEntity(r.Context(), entityType, entityID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, eventlog.FromModels(rows))
	}
}
