package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/swiftdrop/dispatch-backend/api/controllers"
	"github.com/swiftdrop/dispatch-backend/api/middleware"
	"github.com/swiftdrop/dispatch-backend/internal/agents"
	"github.com/swiftdrop/dispatch-backend/internal/analytics"
	"github.com/swiftdrop/dispatch-backend/internal/dispatch"
	"github.com/swiftdrop/dispatch-backend/internal/orders"
	"github.com/swiftdrop/dispatch-backend/internal/warehouses"
	"github.com/swiftdrop/dispatch-backend/pkg/config"
	"github.com/swiftdrop/dispatch-backend/pkg/logger"
	pkgredis "github.com/swiftdrop/dispatch-backend/pkg/redis"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type allocationRunner interface {
	Run(ctx context.Context) (*dispatch.RunReport, error)
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP pinger,
	redisClient *pkgredis.Client,
	warehouseService warehouses.Service,
	agentService agents.Service,
	orderService orders.Service,
	analyticsService analytics.Service,
	engine allocationRunner,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisClient, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		var store pkgredis.IdempotencyStore
		if redisClient != nil {
			store = redisClient
		}
		r.Use(middleware.Idempotency(store, logg))

		r.Route("/warehouses", func(r chi.Router) {
			r.Post("/", controllers.WarehouseCreate(warehouseService, logg))
			r.Get("/", controllers.WarehouseList(warehouseService, logg))
			r.Get("/{warehouseID}", controllers.WarehouseGet(warehouseService, logg))
		})

		r.Route("/agents", func(r chi.Router) {
			r.Post("/", controllers.AgentCreate(agentService, logg))
			r.Get("/", controllers.AgentList(agentService, logg))
			r.Post("/{agentID}/check-in", controllers.AgentCheckIn(agentService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderCreate(orderService, logg))
			r.Get("/", controllers.OrderList(orderService, logg))
			r.Get("/{orderID}", controllers.OrderGet(orderService, logg))
		})

		r.Post("/dispatch/run", controllers.DispatchRun(engine, logg))
		r.Get("/analytics/fleet", controllers.AnalyticsFleet(analyticsService, logg))
	})

	return r
}
