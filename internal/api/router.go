package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/worktrack/worktrack-api/internal/api/handler"
	"github.com/worktrack/worktrack-api/internal/api/middleware"
	"github.com/worktrack/worktrack-api/internal/core/auth"
	"github.com/worktrack/worktrack-api/internal/core/service"
	mongodb "github.com/worktrack/worktrack-api/internal/infrastructure/db/mongo"
	redisdb "github.com/worktrack/worktrack-api/internal/infrastructure/db/redis"
	"github.com/worktrack/worktrack-api/internal/infrastructure/retry"
	"github.com/worktrack/worktrack-api/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("worktrack"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	projectRepo := mongodb.NewProjectRepository(db)
	taskRepo := mongodb.NewTaskRepository(db)

	principalCache := redisdb.NewPrincipalCache(rdb, cfg.PrincipalCacheTTL)
	retryExec := retry.NewExecutor(cfg.RetryMaxAttempts, cfg.RetryBaseDelay, log)

	codec := auth.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL)
	passwords := auth.NewCredentialVerifier(cfg.BcryptCost)
	resolver := auth.NewResolver(userRepo, principalCache, log)

	authService := service.NewAuthService(userRepo, codec, passwords, retryExec, log)
	userService := service.NewUserService(userRepo, passwords, principalCache, retryExec, log)
	projectService := service.NewProjectService(projectRepo, userRepo, retryExec, log)
	taskService := service.NewTaskService(taskRepo, projectRepo, userRepo, retryExec, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	projectHandler := handler.NewProjectHandler(projectService)
	taskHandler := handler.NewTaskHandler(taskService)

	authenticate := middleware.Authenticate(codec, resolver)
	e.Use(authenticate)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", authHandler.Me)

	// --- User routes ---
	e.POST("/users/register", userHandler.Register)
	e.GET("/users", userHandler.List)
	e.GET("/users/search", userHandler.Search)
	e.GET("/users/:id", userHandler.GetByID)
	e.PUT("/users/:id", userHandler.Update)
	e.DELETE("/users/:id", userHandler.Delete)

	// --- Project routes ---
	e.POST("/projects", projectHandler.Create)
	e.GET("/projects", projectHandler.List)
	e.GET("/projects/me", projectHandler.ListMine)
	e.GET("/projects/:id", projectHandler.GetByID)
	e.DELETE("/projects/:id", projectHandler.Delete)

	// --- Task routes ---
	e.POST("/projects/:projectId/tasks", taskHandler.Create)
	e.GET("/projects/:projectId/tasks", taskHandler.ListByProject)
	e.PATCH("/projects/:projectId/tasks/:taskId/assign", taskHandler.Assign)
	e.DELETE("/projects/:projectId/tasks/:taskId", taskHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness)  // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
