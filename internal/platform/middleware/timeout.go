package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestTimeout returns middleware that sets a context deadline on each
// incoming request. Repository calls inherit the deadline, so a transition
// that cannot finish in time fails before its status write rather than being
// partially applied. If the deadline is exceeded before the handler
// completes, a 504 response with a retryable marker is returned.
func RequestTimeout(timeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			defer cancel()

			c.SetRequest(c.Request().WithContext(ctx))

			// Run the handler in a goroutine so we can select on the context.
			done := make(chan error, 1)
			go func() {
				done <- next(c)
			}()

			select {
			case err := <-done:
				return err
			case <-ctx.Done():
				if ctx.Err() == context.DeadlineExceeded {
					return timeoutError(c)
				}
				// Other cancellation reasons (e.g. client disconnect).
				return ctx.Err()
			}
		}
	}
}

func timeoutError(c echo.Context) error {
	if !c.Response().Committed {
		return c.JSON(http.StatusGatewayTimeout, map[string]interface{}{
			"error":     "request processing exceeded the allowed time limit",
			"retryable": true,
		})
	}
	return nil
}
