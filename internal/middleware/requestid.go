package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestID returns a middleware that tags each request with a unique id and
// stashes a request-scoped logger in the echo context.
func RequestID(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Generate a unique request ID
			requestID := uuid.New().String()

			// Add it to the request headers
			c.Request().Header.Set("X-Request-ID", requestID)
			c.Response().Header().Set("X-Request-ID", requestID)

			// Add the request ID to the context
			c.Set("request_id", requestID)

			// Add request ID to logger context
			c.Set("logger", log.With(zap.String("request_id", requestID)))

			// Pass to the next middleware/handler
			return next(c)
		}
	}
}
