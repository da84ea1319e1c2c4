package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	authsvc "github.com/edu-agent/backend/internal/auth"
)

// AdminIDKey is the fiber local under which the authenticated admin is
// stored for downstream handlers.
const AdminIDKey = "admin_id"

// Middleware rejects requests without a valid Bearer session token.
func Middleware(svc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token == header {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Bearer token required",
			})
		}

		adminID, err := svc.ValidateToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(AdminIDKey, adminID)
		return c.Next()
	}
}

// AdminID reads the authenticated admin from the request context.
func AdminID(c *fiber.Ctx) string {
	if id, ok := c.Locals(AdminIDKey).(string); ok {
		return id
	}
	return ""
}
