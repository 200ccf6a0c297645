package middleware

import (
	"campaignAdvisor/pkg/tracing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TraceID reuses the caller's X-Request-ID or mints one, echoes it back and
// stores it in the request context for the engines to log.
func TraceID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			id := req.Header.Get(tracing.HeaderRequestID)
			if id == "" {
				id = uuid.NewString()
			}

			c.Response().Header().Set(tracing.HeaderRequestID, id)
			c.SetRequest(req.WithContext(tracing.WithTraceID(req.Context(), id)))

			return next(c)
		}
	}
}
