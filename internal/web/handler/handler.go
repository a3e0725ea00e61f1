// Package handler holds the portal's page handlers.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-portal/internal/core/domain"
	"github.com/99minutos/user-portal/internal/core/service"
	"github.com/99minutos/user-portal/internal/web/middleware"
	"github.com/99minutos/user-portal/internal/web/view"
)

// Directories hands out the user-administration collaborator of a client.
type Directories interface {
	Directory(ctx context.Context, clientID string) *service.UserDirectory
}

func session(c echo.Context) (*service.SessionContext, error) {
	return service.SessionContextFrom(c.Request().Context())
}

func directory(c echo.Context, dirs Directories) *service.UserDirectory {
	return dirs.Directory(c.Request().Context(), middleware.ClientIDFrom(c))
}

// render writes page with the current session state filled in.
func render(c echo.Context, status int, name string, page view.Page) error {
	if sc, err := session(c); err == nil {
		page.Session = sc.State()
	}
	return c.Render(status, name, page)
}

// renderFailure re-renders a form page for err:
//
//	*domain.ValidationError → 422 with field messages
//	rejection              → 4xx, server message verbatim
//	connection             → 502, generic message
//	missing token          → session dropped, 303 to the login page
//
// Any other error is returned for the central error handler.
func renderFailure(c echo.Context, name string, page view.Page, err error) error {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		page.Errors = ve.Fields
		return render(c, http.StatusUnprocessableEntity, name, page)
	}

	var ae *domain.AuthError
	if errors.As(err, &ae) {
		status := http.StatusBadGateway
		if ae.Kind == domain.KindRejected {
			status = rejectionStatus(ae.Status)
		}
		return render(c, status, name, page.WithFlash(view.FlashError, ae.Message))
	}

	if errors.Is(err, domain.ErrNotAuthenticated) {
		// The stored token is gone; drop the in-memory identity too.
		if sc, serr := session(c); serr == nil {
			sc.Logout(c.Request().Context())
		}
		return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
	}
	return err
}

// rejectionStatus keeps client errors reported by the identity API and maps
// anything else to 400.
func rejectionStatus(apiStatus int) int {
	if apiStatus >= 400 && apiStatus < 500 {
		return apiStatus
	}
	return http.StatusBadRequest
}
