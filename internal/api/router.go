package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/cargotrail/custody-ledger/docs"
	"github.com/cargotrail/custody-ledger/internal/api/handler"
	"github.com/cargotrail/custody-ledger/internal/api/middleware"
	"github.com/cargotrail/custody-ledger/internal/core/service"
	ledgermongo "github.com/cargotrail/custody-ledger/internal/infrastructure/db/mongo"
	ledgerredis "github.com/cargotrail/custody-ledger/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	db *mongo.Database,
	rdb *goredis.Client,
	sched service.MutationScheduler,
	jwtSecret string,
	stream string,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("custody_ledger"))

	// --- Dependencies ---
	shipmentRepo := ledgermongo.NewShipmentRepository(db)
	notificationRepo := ledgermongo.NewNotificationRepository(db)
	stationRepo := ledgermongo.NewStationRepository(db)
	feed := ledgerredis.NewFeed(rdb, stream)

	ledgerService := service.NewLedgerService(shipmentRepo, notificationRepo, feed, sched, log)
	stationService := service.NewStationService(stationRepo, jwtSecret, 24*time.Hour)

	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	stationHandler := handler.NewStationHandler(stationService)
	authMiddleware := middleware.Auth(jwtSecret)

	// --- Auth routes ---
	e.POST("/auth/register", stationHandler.Register)
	e.POST("/auth/login", stationHandler.Login)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/docs/*", echoswagger.WrapHandler)

	// --- Ledger routes (station identity required) ---
	v1 := e.Group("/v1/shipments", authMiddleware)
	v1.POST("", ledgerHandler.Create)
	v1.GET("/:id", ledgerHandler.Get)
	v1.PUT("/:id/status", ledgerHandler.SetStatus)
	v1.POST("/:id/advance", ledgerHandler.Advance)
	v1.POST("/:id/damage", ledgerHandler.ReportDamage)
	v1.GET("/:id/damage", ledgerHandler.ListDamage)
	v1.GET("/:id/stations/:station/passed", ledgerHandler.StationPassed)
	v1.GET("/:id/notifications", ledgerHandler.ListNotifications)

	return e
}
