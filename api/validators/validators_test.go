package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/farmbatch-backend/pkg/errors"
)

type hubBody struct {
	Name   string `json:"name" validate:"required"`
	Status string `json:"status" validate:"omitempty,oneof=active inactive"`
}

func TestDecodeJSONBodyReportsFieldErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"status":"gone"}`))
	var body hubBody
	err := DecodeJSONBody(req, &body)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	if details["name"] != "is required" {
		t.Fatalf("unexpected name detail %q", details["name"])
	}
	if details["status"] != "must be one of active inactive" {
		t.Fatalf("unexpected status detail %q", details["status"])
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Kothrud","colour":"red"}`))
	var body hubBody
	if err := DecodeJSONBody(req, &body); pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

type paymentBody struct {
	Amount decimal.Decimal `json:"amount" validate:"positive_decimal"`
	Lines  []lineBody      `json:"lines" validate:"omitempty,dive"`
}

type lineBody struct {
	Qty string `json:"qty" validate:"required"`
}

func TestDecodeJSONBodyDecimalAndNestedPaths(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":"0","lines":[{"qty":""}]}`))
	var body paymentBody
	typed := pkgerrors.As(DecodeJSONBody(req, &body))
	if typed == nil {
		t.Fatalf("expected validation error")
	}
	details := typed.Details().(map[string]string)
	if details["amount"] != "must be greater than zero" {
		t.Fatalf("unexpected amount detail %q", details["amount"])
	}
	if details["lines[0].qty"] != "is required" {
		t.Fatalf("unexpected nested detail %v", details)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":"12.50"}`))
	var valid paymentBody
	if err := DecodeJSONBody(req, &valid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !valid.Amount.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("unexpected amount %s", valid.Amount)
	}
}

func TestDecodeJSONBodyRejectsTrailingData(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Kothrud"}{"name":"Baner"}`))
	var body hubBody
	if err := DecodeJSONBody(req, &body); pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyRejectsOversizedBody(t *testing.T) {
	payload := `{"name":"` + strings.Repeat("a", int(MaxBodyBytes)) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
	var body hubBody
	typed := pkgerrors.As(DecodeJSONBody(req, &body))
	if typed == nil || typed.Message() != "request body too large" {
		t.Fatalf("expected size error, got %v", typed)
	}
}

func TestParseQueryUUID(t *testing.T) {
	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/?hub_id="+id.String()+"&bad=nope", nil)

	got, err := ParseQueryUUID(req, "hub_id")
	if err != nil || got == nil || *got != id {
		t.Fatalf("expected %s, got %v (%v)", id, got, err)
	}
	if got, err := ParseQueryUUID(req, "missing"); err != nil || got != nil {
		t.Fatalf("expected nil for missing key, got %v (%v)", got, err)
	}
	if _, err := ParseQueryUUID(req, "bad"); pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseURLUUID(t *testing.T) {
	id := uuid.New()
	rc := chi.NewRouteContext()
	rc.URLParams.Add("batchId", id.String())
	rc.URLParams.Add("orderId", "12")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))

	got, err := ParseURLUUID(req, "batchId")
	if err != nil || got != id {
		t.Fatalf("expected %s, got %s (%v)", id, got, err)
	}
	if _, err := ParseURLUUID(req, "orderId"); pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for malformed id, got %v", err)
	}
	if _, err := ParseURLUUID(req, "hubId"); pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing id, got %v", err)
	}
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{in: "  Ravi Patil ", maxLen: 0, want: "Ravi Patil"},
		{in: "tab\there", maxLen: 0, want: "tabhere"},
		{in: "टमाटर", maxLen: 3, want: "टमा"},
		{in: "abcdef", maxLen: 4, want: "abcd"},
	}
	for _, tt := range tests {
		if got := SanitizeString(tt.in, tt.maxLen); got != tt.want {
			t.Fatalf("SanitizeString(%q, %d) = %q want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}
