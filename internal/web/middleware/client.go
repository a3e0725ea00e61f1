package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// ClientCookie names the cookie carrying the browser's client id.
	ClientCookie = "portal_client"
	// ClientIDKey is the echo context key holding the client id.
	ClientIDKey = "client_id"

	clientCookieMaxAge = 365 * 24 * time.Hour
)

// ClientID makes sure every browser carries a stable client id. A missing or
// malformed cookie is replaced with a fresh uuid.
func ClientID(secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ""
			if ck, err := c.Cookie(ClientCookie); err == nil {
				if _, perr := uuid.Parse(ck.Value); perr == nil {
					id = ck.Value
				}
			}
			if id == "" {
				id = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     ClientCookie,
					Value:    id,
					Path:     "/",
					MaxAge:   int(clientCookieMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			c.Set(ClientIDKey, id)
			return next(c)
		}
	}
}

// ClientIDFrom returns the id set by ClientID, or "".
func ClientIDFrom(c echo.Context) string {
	id, _ := c.Get(ClientIDKey).(string)
	return id
}
