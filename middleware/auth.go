// middleware/auth.go
package middleware

import (
	"strings"

	"camo-tracker/logger"

	"github.com/gofiber/fiber/v2"
)

const userIDKey = "user_id"

// UserContextMiddleware reads the identity the gateway resolved from the
// session. A missing X-User-ID means an anonymous visitor.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get("X-User-ID"))
		c.Locals(userIDKey, userID)
		if userID != "" {
			logger.Debug().Str("user_id", userID).Str("path", c.Path()).Msg("👤 [USER_CTX]")
		}
		return c.Next()
	}
}

// RequireUser rejects anonymous requests.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if UserID(c) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "log in required",
			})
		}
		return c.Next()
	}
}

// UserID returns the caller's user id, or "" for anonymous requests.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(userIDKey).(string)
	return id
}
