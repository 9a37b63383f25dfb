package middleware

import (
	"strings"

	"agent-kb/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	LocalUserID     = "userID"
	LocalBusinessID = "businessID"
)

// AuthMiddleware resolves the caller's business from a bearer token. A token
// without a business claim still passes; handlers reject it as forbidden.
func AuthMiddleware(jwtManager *auth.JWTManager, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get(fiber.HeaderAuthorization)
		if token == "" {
			logger.Warn("Missing authorization token")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization token required",
			})
		}

		token = strings.TrimPrefix(token, "Bearer ")

		claims, err := jwtManager.ValidateToken(token)
		if err != nil {
			logger.Warn("Invalid token", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalBusinessID, claims.BusinessID)

		return c.Next()
	}
}

// BusinessID returns the business resolved by AuthMiddleware, or "".
func BusinessID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalBusinessID).(string)
	return strings.TrimSpace(id)
}
