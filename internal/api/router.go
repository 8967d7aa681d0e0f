package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/primetrade/taskhub/docs"
	"github.com/primetrade/taskhub/internal/api/handler"
	"github.com/primetrade/taskhub/internal/api/middleware"
	"github.com/primetrade/taskhub/internal/core/domain"
	"github.com/primetrade/taskhub/internal/core/ports"
	"github.com/primetrade/taskhub/internal/core/service"
	"github.com/primetrade/taskhub/internal/infrastructure/config"
	mongodb "github.com/primetrade/taskhub/internal/infrastructure/db/mongo"
	redisdb "github.com/primetrade/taskhub/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// Routes outside the /api/v1/tasks group form the unauthenticated allow-list:
// registration, login, health probes, metrics and API docs.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger, audit ports.ActivityRecorder) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("taskhub"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	taskRepo := mongodb.NewTaskRepository(db)

	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	hasher := service.NewPasswordHasher()
	limiter := redisdb.NewLoginLimiter(rdb)

	authService := service.NewAuthService(userRepo, hasher, tokens, log).
		WithLoginLimiter(limiter).
		WithAuditRecorder(audit)
	taskService := service.NewTaskService(taskRepo, userRepo, log).
		WithAuditRecorder(audit)

	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService)

	// --- Auth routes (unauthenticated) ---
	v1 := e.Group("/api/v1")
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)

	// --- Task routes (bearer token required) ---
	tasks := v1.Group("/tasks", middleware.Auth(tokens, userRepo))
	tasks.POST("", taskHandler.Create)
	tasks.GET("", taskHandler.List)
	tasks.GET("/:id", taskHandler.Get)
	tasks.PUT("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)
	tasks.GET("/user/:userId", taskHandler.ListByUser, middleware.RBAC(domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability and docs (no auth required) ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
