package middleware

import (
	"net/http"
	"strings"

	"agrostore/pkg/jwtutil"
	"agrostore/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Auth returns a middleware that validates the Bearer JWT and stores the
// authenticated customer in the request context.
func Auth(jwt *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			// Get the Authorization header
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing Authorization header")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
			}

			// Check if it's a Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Warn("Invalid Authorization header format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
			}

			// Validate the token
			claims, err := jwt.ValidateToken(parts[1])
			if err != nil {
				log.Error("Invalid JWT token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			// Store customer info in context for later use
			c.Set("customer_id", claims.CustomerID)
			c.Set("phone", claims.Phone)

			return next(c)
		}
	}
}

// CustomerIDFromContext retrieves the authenticated customer id from the
// context. Returns 0, false when the request is unauthenticated.
func CustomerIDFromContext(c echo.Context) (uint, bool) {
	id, ok := c.Get("customer_id").(uint)
	return id, ok
}
