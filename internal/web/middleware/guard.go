package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-portal/internal/core/domain"
	"github.com/99minutos/user-portal/internal/core/service"
	"github.com/99minutos/user-portal/internal/infrastructure/metrics"
	"github.com/99minutos/user-portal/internal/web/view"
)

const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"

	// loadingRefresh is the Refresh header value sent with the loading page.
	loadingRefresh = "1"
)

// Guard protects a route. An empty requiredRole admits any authenticated
// identity. Requests without an attached SessionContext fail with
// domain.ErrNoSessionContext.
func Guard(requiredRole domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sc, err := service.SessionContextFrom(c.Request().Context())
			if err != nil {
				return err
			}

			state := sc.State()
			decision := service.Decide(state, requiredRole)
			metrics.RecordGuardDecision(decision.String(), requiredRole)

			switch decision {
			case service.DecisionLoading:
				c.Response().Header().Set("Refresh", loadingRefresh)
				return c.Render(http.StatusOK, view.PageLoading, view.Page{Title: "Loading", Session: state})
			case service.DecisionRedirectLogin:
				return c.Redirect(http.StatusSeeOther, LoginPath)
			case service.DecisionRedirectUnauthorized:
				return c.Redirect(http.StatusSeeOther, UnauthorizedPath)
			default:
				return next(c)
			}
		}
	}
}
