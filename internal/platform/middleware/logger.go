package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/careflow/careflow/internal/platform/auth"
)

// Logger records one event per request. Clinical traffic is attributed:
// the authenticated user and their acting role are logged alongside the
// visit id when the route carries one, so status-history audits can be
// correlated with the request log.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			rid, _ := c.Get("request_id").(string)

			err := next(c)

			// The auth middleware runs inside next and swaps the request,
			// so identity is read after the handler returns.
			req := c.Request()
			ctx := req.Context()

			evt := logger.Info()
			if err != nil {
				evt = logger.Error().Err(err)
			}

			evt = evt.
				Str("request_id", rid).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", c.Response().Status).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP())

			if userID := auth.UserIDFromContext(ctx); userID != "" {
				evt = evt.
					Str("user_id", userID).
					Str("role", auth.PrimaryRole(auth.RolesFromContext(ctx)))
			}
			if visitID := c.Param("id"); visitID != "" {
				evt = evt.Str("visit_id", visitID)
			}

			evt.Msg("request")
			return err
		}
	}
}
