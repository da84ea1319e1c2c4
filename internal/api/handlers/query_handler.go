package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	authmw "github.com/edu-agent/backend/internal/middleware/auth"
	"github.com/edu-agent/backend/internal/middleware/validation"
	"github.com/edu-agent/backend/internal/query"
	"github.com/edu-agent/backend/internal/storage/sqlite"
	"github.com/edu-agent/backend/pkg/logger"
)

type QueryHandler struct {
	sessions *query.Manager
	audit    *sqlite.Client
}

func NewQueryHandler(sessions *query.Manager, audit *sqlite.Client) *QueryHandler {
	return &QueryHandler{sessions: sessions, audit: audit}
}

// HandleQuery runs one natural-language query for the authenticated admin.
func (h *QueryHandler) HandleQuery(c *fiber.Ctx) error {
	adminID := authmw.AdminID(c)

	queryText := validation.SanitizedQuery(c)
	if queryText == "" {
		var req struct {
			Query string `json:"query"`
		}
		if err := c.BodyParser(&req); err != nil {
			logger.Error("Failed to parse request body", zap.Error(err))
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
		queryText = req.Query
	}

	if queryText == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Query is required",
		})
	}

	result := h.sessions.ExecuteQuery(c.Context(), adminID, queryText)

	return c.JSON(fiber.Map{
		"id":            result.ID,
		"query":         result.Query,
		"response":      result.Response,
		"intent":        result.Intent,
		"confidence":    result.Confidence,
		"fallback_used": result.FallbackUsed,
		"latency_ms":    result.LatencyMS,
	})
}

// GetQueryHistory returns the admin's most recent audit rows.
func (h *QueryHandler) GetQueryHistory(c *fiber.Ctx) error {
	adminID := authmw.AdminID(c)
	limit := c.QueryInt("limit", 20)

	if h.audit == nil {
		return c.JSON(fiber.Map{"history": []interface{}{}})
	}

	records, err := h.audit.RecentQueries(adminID, limit)
	if err != nil {
		logger.Error("Failed to read query history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read query history",
		})
	}

	history := make([]fiber.Map, 0, len(records))
	for _, r := range records {
		history = append(history, fiber.Map{
			"id":            r.ID,
			"query":         r.QueryText,
			"intent":        r.Intent,
			"response":      r.Response,
			"fallback_used": r.FallbackUsed,
			"latency_ms":    r.LatencyMS,
			"created_at":    r.CreatedAt.UTC(),
		})
	}

	return c.JSON(fiber.Map{"history": history})
}

// GetConversation summarizes the session's in-memory context window.
func (h *QueryHandler) GetConversation(c *fiber.Ctx) error {
	adminID := authmw.AdminID(c)
	summary := h.sessions.EngineFor(adminID).ConversationSummary()

	return c.JSON(fiber.Map{
		"total_queries":       summary.TotalQueries,
		"recent_intents":      summary.RecentIntents,
		"conversation_length": summary.Length,
	})
}

// ResetConversation clears the session context; idempotent.
func (h *QueryHandler) ResetConversation(c *fiber.Ctx) error {
	adminID := authmw.AdminID(c)
	h.sessions.ResetContext(adminID)

	return c.JSON(fiber.Map{"status": "reset"})
}
