package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/farmbatch-backend/internal/hubs"
	"github.com/angelmondragon/farmbatch-backend/internal/stats"
	pkgAuth "github.com/angelmondragon/farmbatch-backend/pkg/auth"
	"github.com/angelmondragon/farmbatch-backend/pkg/authz"
	"github.com/angelmondragon/farmbatch-backend/pkg/config"
	"github.com/angelmondragon/farmbatch-backend/pkg/db/models"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
	"github.com/angelmondragon/farmbatch-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubRedis struct {
	stubPinger
	allow bool
}

func (s stubRedis) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	return s.allow, 0, nil
}

func (stubRedis) Get(context.Context, string) (string, error) { return "", nil }

func (stubRedis) SetNX(context.Context, string, any, time.Duration) (bool, error) { return true, nil }

func (stubRedis) IdempotencyKey(scope, id string) string { return "idem:" + scope + ":" + id }

func (stubRedis) Del(context.Context, ...string) error { return nil }

type stubHubService struct {
	hubs.Service
}

func (stubHubService) List(ctx context.Context, filter enums.ActiveFilter) ([]models.Hub, error) {
	return []models.Hub{{ID: uuid.New(), Name: "North", IsActive: true}}, nil
}

type stubStatsService struct{}

func (stubStatsService) Snapshot(context.Context) (*stats.Snapshot, error) {
	return &stats.Snapshot{ActiveHubs: 1}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "farmbatch-test",
			ExpirationMinutes: 5,
		},
		FeatureFlags: config.FeatureFlagsConfig{Idempotency: true},
		RateLimit:    config.RateLimitConfig{PublicWindow: time.Minute, PublicLimit: 10},
		Metrics:      config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config, redisClient RedisClient) (http.Handler, *prometheus.Registry) {
	t.Helper()
	enforcer, err := authz.New(authz.DefaultPolicies)
	if err != nil {
		t.Fatalf("build enforcer: %v", err)
	}
	registry := prometheus.NewRegistry()
	router := NewRouter(cfg, logger.Nop(), stubPinger{}, redisClient, registry, enforcer, Services{
		Hubs:  stubHubService{},
		Stats: stubStatsService{},
	})
	return router, registry
}

func bearer(t *testing.T, cfg *config.Config, role enums.Role) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		Name:   "tester",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return "Bearer " + token
}

func TestHealthRoutes(t *testing.T) {
	router, _ := newTestRouter(t, testConfig(), stubRedis{allow: true})
	for _, path := range []string{"/health/live", "/health/ready"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestRoleGroups(t *testing.T) {
	cfg := testConfig()
	router, _ := newTestRouter(t, cfg, stubRedis{allow: true})

	tests := []struct {
		name   string
		role   enums.Role
		path   string
		status int
	}{
		{name: "anonymous admin", path: "/api/v1/admin/hubs", status: http.StatusUnauthorized},
		{name: "buyer on admin", role: enums.RoleBuyer, path: "/api/v1/admin/hubs", status: http.StatusForbidden},
		{name: "admin on admin", role: enums.RoleAdmin, path: "/api/v1/admin/hubs", status: http.StatusOK},
		{name: "admin on buyer", role: enums.RoleAdmin, path: "/api/v1/buyer/orders", status: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.role != "" {
				req.Header.Set("Authorization", bearer(t, cfg, tt.role))
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			if resp.Code != tt.status {
				t.Fatalf("expected %d got %d: %s", tt.status, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestOrderCreationRequiresIdempotencyKey(t *testing.T) {
	cfg := testConfig()
	router, _ := newTestRouter(t, cfg, stubRedis{allow: true})

	body := `{"fulfillment_type":"PICKUP","items":[{"batch_product_id":"` + uuid.NewString() + `","ordered_qty":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/buyer/batches/"+uuid.NewString()+"/orders", strings.NewReader(body))
	req.Header.Set("Authorization", bearer(t, cfg, enums.RoleBuyer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Idempotency-Key") {
		t.Fatalf("expected idempotency error, got %s", resp.Body.String())
	}
}

func TestIdempotencyDisabledByFlag(t *testing.T) {
	cfg := testConfig()
	cfg.FeatureFlags.Idempotency = false
	router, _ := newTestRouter(t, cfg, stubRedis{allow: true})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/buyer/batches/"+uuid.NewString()+"/orders", strings.NewReader(`{}`))
	req.Header.Set("Authorization", bearer(t, cfg, enums.RoleBuyer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if strings.Contains(resp.Body.String(), "Idempotency-Key") {
		t.Fatalf("idempotency should be skipped, got %s", resp.Body.String())
	}
}

func TestPublicStatsRateLimited(t *testing.T) {
	cfg := testConfig()

	router, _ := newTestRouter(t, cfg, stubRedis{allow: true})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/public/stats", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	router, _ = newTestRouter(t, cfg, stubRedis{allow: false})
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/public/stats", nil))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", resp.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	cfg := testConfig()
	router, _ := newTestRouter(t, cfg, nil)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "farmbatch_http_request_duration_seconds") {
		t.Fatalf("expected http metrics in output")
	}
}
