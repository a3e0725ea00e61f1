package logger

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Middleware logs one structured record per request. Extra fields are read
// from the echo context keys listed in fields (e.g. "client_id").
func Middleware(log zerolog.Logger, fields ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			ev := log.Info()
			switch {
			case res.Status >= 500:
				ev = log.Error().Err(err)
			case res.Status >= 400:
				ev = log.Warn()
			}

			ev = ev.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID))

			for _, f := range fields {
				if v, ok := c.Get(f).(string); ok && v != "" {
					ev = ev.Str(f, v)
				}
			}
			ev.Msg("request")
			return nil
		}
	}
}
