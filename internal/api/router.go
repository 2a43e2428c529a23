package api

import (
	"context"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/identity-platform/accounts-api/docs"
	"github.com/identity-platform/accounts-api/internal/api/handler"
	"github.com/identity-platform/accounts-api/internal/api/middleware"
	"github.com/identity-platform/accounts-api/internal/core/auth"
	"github.com/identity-platform/accounts-api/internal/core/domain"
	"github.com/identity-platform/accounts-api/internal/core/service"
	"github.com/identity-platform/accounts-api/internal/infrastructure/config"
	mongodb "github.com/identity-platform/accounts-api/internal/infrastructure/db/mongo"
	redisdb "github.com/identity-platform/accounts-api/internal/infrastructure/db/redis"
	"github.com/identity-platform/accounts-api/internal/infrastructure/http/handlers"
	"github.com/identity-platform/accounts-api/internal/infrastructure/queue"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// ctx bounds the lifetime of the hash pool workers.
func NewRouter(ctx context.Context, db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("accounts"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)
	loginTracker := redisdb.NewLastLoginTracker(rdb)

	hashPool := queue.NewHashPool(cfg.HashWorkers, auth.NewBcryptHasher(cfg.BcryptCost), log)
	hashPool.Start(ctx)

	tokens := auth.NewTokenService(cfg.JWTSecret)
	engine := service.NewAuthEngine(userRepo, hashPool, tokens, auditRepo, loginTracker, cfg.TokenTTL, log)
	users := service.NewUserManager(userRepo, hashPool, log)

	authHandler := handler.NewAuthHandler(engine)
	userHandler := handler.NewUserHandler(users)
	authRequired := middleware.Auth(engine)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", authHandler.Me, authRequired)
	e.GET("/auth/admin", authHandler.Admin, authRequired, middleware.RequireRole(engine, domain.RoleAdmin))

	// --- User management (minimum role per route) ---
	ug := e.Group("/users", authRequired)
	ug.GET("", userHandler.List, middleware.RequireRole(engine, domain.RoleManager))
	ug.GET("/:id", userHandler.Get, middleware.RequireRole(engine, domain.RoleManager))
	ug.PUT("/:id", userHandler.Update, middleware.RequireRole(engine, domain.RoleManager))
	ug.DELETE("/:id", userHandler.Delete, middleware.RequireRole(engine, domain.RoleAdmin))

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	return e
}
