package validation

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Config struct {
	MaxQueryLength int
	Logger         *zap.Logger
}

// Middleware sanity-checks query submissions before they reach the engine:
// a query must be a non-empty string of bounded length with no control
// bytes. The cleaned text is left in locals for the handler.
func Middleware(cfg Config) fiber.Handler {
	if cfg.MaxQueryLength == 0 {
		cfg.MaxQueryLength = 2000
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost || !strings.HasSuffix(c.Path(), "/query") {
			return c.Next()
		}

		var req map[string]interface{}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid JSON format",
			})
		}

		query, ok := req["query"].(string)
		if !ok || strings.TrimSpace(query) == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Query is required and must be a string",
			})
		}

		if len(query) > cfg.MaxQueryLength {
			cfg.Logger.Warn("Oversized query rejected",
				zap.String("ip", c.IP()),
				zap.Int("length", len(query)),
			)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Query exceeds maximum length",
			})
		}

		c.Locals("sanitized_query", sanitize(query))
		return c.Next()
	}
}

// SanitizedQuery returns the cleaned query text, or empty when the
// middleware did not run for this request.
func SanitizedQuery(c *fiber.Ctx) string {
	if q, ok := c.Locals("sanitized_query").(string); ok {
		return q
	}
	return ""
}

func sanitize(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")
	return input
}
