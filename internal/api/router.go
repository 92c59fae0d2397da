package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shipwatch/tracking-engine/internal/api/handler"
	"github.com/shipwatch/tracking-engine/internal/api/middleware"
	"github.com/shipwatch/tracking-engine/internal/core/domain"
	"github.com/shipwatch/tracking-engine/internal/core/ports"
)

// Deps bundles everything the router needs; cmd/api wires the concrete
// implementations.
type Deps struct {
	JWTSecret string
	Logger    zerolog.Logger

	Shipments ports.ShipmentService
	Tracking  ports.TrackingService
	Stats     ports.StatsService
	Auth      ports.AuthService

	Mongo *mongo.Database
	Redis *redis.Client
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("tracking"))

	// --- Handlers ---
	shipmentHandler := handler.NewShipmentHandler(deps.Shipments)
	trackingHandler := handler.NewTrackingHandler(deps.Tracking)
	statsHandler := handler.NewStatsHandler(deps.Stats)
	authHandler := handler.NewAuthHandler(deps.Auth)
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	// --- Unauthenticated surface ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Authenticated API ---
	v1 := e.Group("/v1", middleware.Auth(deps.JWTSecret))

	readRoles := middleware.RBAC(domain.RoleAdmin, domain.RoleCustomer)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	v1.GET("/orders/:order_id/shipment", shipmentHandler.GetByOrder, readRoles)
	v1.GET("/tracking/:carrier/:tracking_number", trackingHandler.Track, readRoles)

	v1.POST("/shipments", shipmentHandler.Create, adminOnly)
	v1.PATCH("/shipments/:id", shipmentHandler.Update, adminOnly)
	v1.POST("/shipments/:id/events", shipmentHandler.InsertEvent, adminOnly)
	v1.POST("/shipments/:id/refresh", shipmentHandler.Refresh, adminOnly)

	v1.GET("/stats/status", statsHandler.StatusDistribution, adminOnly)
	v1.GET("/stats/carriers", statsHandler.CarrierDistribution, adminOnly)
	v1.GET("/stats/volume", statsHandler.Volume, adminOnly)

	return e
}
