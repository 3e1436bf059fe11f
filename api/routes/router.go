package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/farmbatch-backend/api/controllers"
	"github.com/angelmondragon/farmbatch-backend/api/middleware"
	"github.com/angelmondragon/farmbatch-backend/internal/batches"
	"github.com/angelmondragon/farmbatch-backend/internal/eventlog"
	"github.com/angelmondragon/farmbatch-backend/internal/farmers"
	"github.com/angelmondragon/farmbatch-backend/internal/hubs"
	"github.com/angelmondragon/farmbatch-backend/internal/orders"
	"github.com/angelmondragon/farmbatch-backend/internal/packing"
	"github.com/angelmondragon/farmbatch-backend/internal/payments"
	"github.com/angelmondragon/farmbatch-backend/internal/payouts"
	"github.com/angelmondragon/farmbatch-backend/internal/procurement"
	"github.com/angelmondragon/farmbatch-backend/internal/products"
	"github.com/angelmondragon/farmbatch-backend/internal/stats"
	"github.com/angelmondragon/farmbatch-backend/pkg/authz"
	"github.com/angelmondragon/farmbatch-backend/pkg/config"
	"github.com/angelmondragon/farmbatch-backend/pkg/db"
	"github.com/angelmondragon/farmbatch-backend/pkg/logger"
	"github.com/angelmondragon/farmbatch-backend/pkg/metrics"
	pkgredis "github.com/angelmondragon/farmbatch-backend/pkg/redis"
)

// RedisClient is the slice of the Redis wrapper the HTTP layer needs.
type RedisClient interface {
	pkgredis.Pinger
	pkgredis.RateLimiter
	pkgredis.IdempotencyStore
}

// Services groups the domain services exposed over HTTP.
type Services struct {
	Hubs        hubs.Service
	Farmers     farmers.Service
	Products    products.Service
	Batches     batches.Service
	Orders      orders.Service
	Payments    payments.Service
	Packing     packing.Service
	Procurement procurement.Service
	Payouts     payouts.Service
	Stats       stats.Service
	Events      eventlog.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient RedisClient,
	registry *prometheus.Registry,
	authorizer authz.Authorizer,
	svc Services,
) http.Handler {
	r := chi.NewRouter()

	var httpMetrics *metrics.HTTP
	if cfg.Metrics.Enabled && registry != nil {
		httpMetrics = metrics.NewHTTP(registry)
	}

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	var (
		rateStore        pkgredis.RateLimiter
		idempotencyStore pkgredis.IdempotencyStore
		deps             = []controllers.Dependency{{Name: "database", Pinger: dbP}}
	)
	if redisClient != nil {
		rateStore = redisClient
		deps = append(deps, controllers.Dependency{Name: "redis", Pinger: redisClient})
		if cfg.FeatureFlags.Idempotency {
			idempotencyStore = redisClient
		}
	}
	publicPolicy := middleware.NewRateLimitPolicy("public", cfg.RateLimit.PublicWindow, cfg.RateLimit.PublicLimit)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps...))
	})

	if cfg.Metrics.Enabled && registry != nil {
		r.Handle(cfg.Metrics.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Use(middleware.RateLimit(publicPolicy, rateStore, logg))
		r.Get("/stats", controllers.PublicStats(svc.Stats, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Authorize(authorizer, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/admin", func(r chi.Router) {
			r.Route("/hubs", func(r chi.Router) {
				r.Get("/", controllers.AdminListHubs(svc.Hubs, logg))
				r.Post("/", controllers.AdminCreateHub(svc.Hubs, logg))
				r.Get("/{hubId}", controllers.AdminGetHub(svc.Hubs, logg))
				r.Patch("/{hubId}", controllers.AdminUpdateHub(svc.Hubs, logg))
				r.Post("/{hubId}/deactivate", controllers.AdminDeactivateHub(svc.Hubs, logg))
			})

			r.Route("/farmers", func(r chi.Router) {
				r.Get("/", controllers.AdminListFarmers(svc.Farmers, logg))
				r.Post("/", controllers.AdminCreateFarmer(svc.Farmers, logg))
				r.Get("/{farmerId}", controllers.AdminGetFarmer(svc.Farmers, logg))
				r.Patch("/{farmerId}", controllers.AdminUpdateFarmer(svc.Farmers, logg))
				r.Post("/{farmerId}/deactivate", controllers.AdminDeactivateFarmer(svc.Farmers, logg))
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.AdminListProducts(svc.Products, logg))
				r.Post("/", controllers.AdminCreateProduct(svc.Products, logg))
				r.Get("/{productId}", controllers.AdminGetProduct(svc.Products, logg))
				r.Patch("/{productId}", controllers.AdminUpdateProduct(svc.Products, logg))
				r.Post("/{productId}/deactivate", controllers.AdminDeactivateProduct(svc.Products, logg))
				r.Delete("/{productId}", controllers.AdminDeleteProduct(svc.Products, logg))
			})

			r.Route("/batches", func(r chi.Router) {
				r.Get("/", controllers.AdminListBatches(svc.Batches, logg))
				r.Post("/", controllers.AdminCreateBatch(svc.Batches, logg))
				r.Route("/{batchId}", func(r chi.Router) {
					r.Get("/", controllers.AdminGetBatch(svc.Batches, logg))
					r.Patch("/", controllers.AdminUpdateBatch(svc.Batches, logg))
					r.Post("/transition", controllers.AdminTransitionBatch(svc.Batches, logg))
					r.Get("/products", controllers.AdminListBatchProducts(svc.Batches, logg))
					r.Post("/products", controllers.AdminAddBatchProduct(svc.Batches, logg))
					r.Get("/orders", controllers.AdminListBatchOrders(svc.Orders, logg))
					r.Get("/procurement", controllers.AdminProcurementReport(svc.Procurement, logg))
					r.Get("/payouts", controllers.AdminReconcilePayouts(svc.Payouts, logg))
					r.Post("/payouts", controllers.AdminLogPayout(svc.Payouts, logg))
				})
			})

			r.Route("/batch-products/{batchProductId}", func(r chi.Router) {
				r.Patch("/", controllers.AdminUpdateBatchProduct(svc.Batches, logg))
				r.Delete("/", controllers.AdminRemoveBatchProduct(svc.Batches, logg))
			})

			r.Route("/orders/{orderId}", func(r chi.Router) {
				r.Get("/", controllers.AdminGetOrder(svc.Orders, logg))
				r.Get("/payments", controllers.AdminListPayments(svc.Payments, logg))
				r.Post("/payments", controllers.AdminLogPayment(svc.Payments, logg))
				r.Post("/packing", controllers.AdminUpdatePacking(svc.Packing, logg))
			})

			r.Get("/events/{entityType}/{entityId}", controllers.AdminListEvents(svc.Events, logg))
		})

		r.Route("/buyer", func(r chi.Router) {
			r.Get("/batches", controllers.BuyerListBatches(svc.Batches, logg))
			r.Get("/batches/{batchId}", controllers.BuyerGetBatch(svc.Batches, logg))
			r.Get("/batches/{batchId}/products", controllers.BuyerListBatchProducts(svc.Batches, logg))
			r.Post("/batches/{batchId}/orders", controllers.BuyerCreateOrder(svc.Orders, logg))

			r.Get("/orders", controllers.BuyerListOrders(svc.Orders, logg))
			r.Get("/orders/{orderId}", controllers.BuyerGetOrder(svc.Orders, logg))
			r.Patch("/orders/{orderId}", controllers.BuyerEditOrder(svc.Orders, logg))
			r.Post("/orders/{orderId}/cancel", controllers.BuyerCancelOrder(svc.Orders, logg))
		})
	})

	return r
}
