package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/farmbatch-backend/api/middleware"
	"github.com/angelmondragon/farmbatch-backend/api/validators"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmbatch-backend/pkg/errors"
	"github.com/angelmondragon/farmbatch-backend/pkg/pagination"
)

func actorID(r *http.Request) (uuid.UUID, error) {
	id, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	return id, nil
}

// activeFilter reads ?active=, defaulting to active records only.
func activeFilter(r *http.Request) (enums.ActiveFilter, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("active"))
	if raw == "" {
		return enums.ActiveFilterActive, nil
	}
	return parseEnum(strings.ToLower(raw), "active", enums.ParseActiveFilter)
}

func pageParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}, nil
}

func parseEnum[T any](raw, field string, parser func(string) (T, error)) (T, error) {
	value, err := parser(strings.TrimSpace(raw))
	if err != nil {
		var zero T
		return zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+field).WithDetails(map[string]any{"field": field})
	}
	return value, nil
}

func parseOptionalEnum[T any](raw *string, field string, parser func(string) (T, error)) (*T, error) {
	if raw == nil {
		return nil, nil
	}
	value, err := parseEnum(*raw, field, parser)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// queryEnum parses an uppercase enum filter and returns nil when key is absent.
func queryEnum[T any](r *http.Request, key string, parser func(string) (T, error)) (*T, error) {
	raw := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get(key)))
	if raw == "" {
		return nil, nil
	}
	return parseOptionalEnum(&raw, key, parser)
}

func trimmedPtr(value *string, maxLen int) *string {
	if value == nil {
		return nil
	}
	out := validators.SanitizeString(*value, maxLen)
	return &out
}

func upperPtr(value *string) *string {
	if value == nil {
		return nil
	}
	out := strings.ToUpper(strings.TrimSpace(*value))
	return &out
}
