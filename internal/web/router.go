package web

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/99minutos/user-portal/internal/core/domain"
	"github.com/99minutos/user-portal/internal/infrastructure/http/handlers"
	"github.com/99minutos/user-portal/internal/web/handler"
	"github.com/99minutos/user-portal/internal/web/middleware"
	"github.com/99minutos/user-portal/internal/web/view"
	"github.com/99minutos/user-portal/pkg/logger"
)

// Deps are the collaborators of the portal.
type Deps struct {
	Clients      *ClientRegistry
	Log          zerolog.Logger
	CookieSecure bool
	Checkers     []handlers.Checker
	// Metrics mounts echoprometheus and /metrics.
	Metrics bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.ClientID(d.CookieSecure))
	e.Use(logger.Middleware(d.Log, middleware.ClientIDKey))
	if d.Metrics {
		e.Use(echoprometheus.NewMiddleware("portal"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	// --- Health probes (no session required) ---
	healthHandler := handlers.NewHealthHandler("portal")
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Checkers...)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Pages ---
	auth := handler.NewAuthHandler(d.Clients)
	profile := handler.NewProfileHandler(d.Clients)
	users := handler.NewUsersHandler(d.Clients)

	pages := e.Group("", middleware.Session(d.Clients))
	pages.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
	})
	pages.GET("/login", auth.LoginPage)
	pages.POST("/login", auth.Login)
	pages.POST("/login/:provider", auth.SocialLogin)
	pages.GET("/register", auth.RegisterPage)
	pages.POST("/register", auth.Register)
	pages.POST("/logout", auth.Logout)
	pages.GET("/unauthorized", auth.Unauthorized)

	anyRole := middleware.Guard("")
	pages.GET("/profile", profile.Show, anyRole)
	pages.POST("/profile", profile.Update, anyRole)

	admin := middleware.Guard(domain.RoleAdmin)
	pages.GET("/users", users.List, admin)
	pages.POST("/users", users.Create, admin)
	pages.POST("/users/:id", users.Update, admin)
	pages.POST("/users/:id/delete", users.Delete, admin)

	return e, nil
}
