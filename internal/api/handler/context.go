package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-portal/internal/core/domain"
)

// ctxClaims extracts the auth claims injected by the Auth middleware.
// The subject must be non-empty; its presence proves the middleware ran.
func ctxClaims(c echo.Context) (subject string, role domain.Role, err error) {
	subject, _ = c.Get("sub").(string)
	if subject == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	r, _ := c.Get("role").(string)
	return subject, domain.Role(r), nil
}
