package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-portal/internal/core/service"
)

// Sessions hands out the SessionContext of a client.
type Sessions interface {
	Session(ctx context.Context, clientID string) *service.SessionContext
}

// Session attaches the client's SessionContext to the request context.
// It must run after ClientID.
func Session(sessions Sessions) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ClientIDFrom(c)
			if id == "" {
				return next(c)
			}
			req := c.Request()
			sc := sessions.Session(req.Context(), id)
			c.SetRequest(req.WithContext(service.WithSessionContext(req.Context(), sc)))
			return next(c)
		}
	}
}
