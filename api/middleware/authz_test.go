package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/farmbatch-backend/pkg/authz"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
)

type stubAuthorizer struct {
	err error
}

func (s stubAuthorizer) Allowed(role enums.Role, path, method string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return false, nil
}

func TestAuthorizeUsesPolicies(t *testing.T) {
	enforcer, err := authz.New(authz.DefaultPolicies)
	if err != nil {
		t.Fatalf("build enforcer: %v", err)
	}
	handler := Authorize(enforcer, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name   string
		role   string
		method string
		path   string
		want   int
	}{
		{"admin on admin route", "admin", http.MethodPost, "/api/v1/admin/batches", http.StatusNoContent},
		{"buyer on admin route", "buyer", http.MethodGet, "/api/v1/admin/batches", http.StatusForbidden},
		{"buyer on buyer route", "buyer", http.MethodPost, "/api/v1/buyer/batches/abc/orders", http.StatusNoContent},
		{"admin on buyer route", "admin", http.MethodGet, "/api/v1/buyer/orders", http.StatusForbidden},
		{"missing role", "", http.MethodGet, "/api/v1/buyer/orders", http.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		req = req.WithContext(WithRole(req.Context(), tc.role))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != tc.want {
			t.Fatalf("%s: expected %d got %d", tc.name, tc.want, resp.Code)
		}
	}
}

func TestAuthorizeEnforcerError(t *testing.T) {
	handler := Authorize(stubAuthorizer{err: errors.New("boom")}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/hubs", nil)
	req = req.WithContext(WithRole(req.Context(), "admin"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}
