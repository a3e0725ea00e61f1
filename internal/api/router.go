package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/user-portal/docs"
	"github.com/99minutos/user-portal/internal/api/handler"
	"github.com/99minutos/user-portal/internal/api/middleware"
	"github.com/99minutos/user-portal/internal/core/domain"
	"github.com/99minutos/user-portal/internal/core/ports"
	"github.com/99minutos/user-portal/internal/core/service"
	"github.com/99minutos/user-portal/internal/infrastructure/http/handlers"
	"github.com/99minutos/user-portal/pkg/logger"
)

// Deps are the collaborators of the development identity API.
type Deps struct {
	Users     ports.UserRepository
	JWTSecret string
	TokenTTL  time.Duration
	// BasePath prefixes /auth and /users, e.g. "/api".
	BasePath string
	Log      zerolog.Logger
	Checkers []handlers.Checker
	// Metrics mounts echoprometheus and /metrics. Off in tests to keep the
	// default registry free of duplicate collectors.
	Metrics bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(logger.Middleware(d.Log))
	if d.Metrics {
		e.Use(echoprometheus.NewMiddleware("identity_api"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	// --- Dependencies ---
	authService := service.NewAuthService(d.Users, d.JWTSecret, d.TokenTTL)
	userService := service.NewUserService(d.Users)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	authMiddleware := middleware.Auth(d.JWTSecret)
	adminOnly := middleware.RBAC(string(domain.RoleAdmin))

	g := e.Group(d.BasePath)

	// --- Auth routes ---
	g.POST("/auth/register", authHandler.Register)
	g.POST("/auth/login", authHandler.Login)

	// --- User routes ---
	users := g.Group("/users", authMiddleware)
	users.GET("", userHandler.List, adminOnly)
	users.POST("", userHandler.Create, adminOnly)
	users.PATCH("/:id", userHandler.Update, middleware.SelfOrRBAC("id", string(domain.RoleAdmin)))
	users.DELETE("/:id", userHandler.Delete, adminOnly)

	// --- Docs & health probes (no auth required) ---
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	healthHandler := handlers.NewHealthHandler("identity-api")
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Checkers...)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	return e
}
