package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/edu-agent/backend/internal/auth"
	"github.com/edu-agent/backend/internal/query"
	"github.com/edu-agent/backend/pkg/logger"
)

type WebSocketHandler struct {
	sessions    *query.Manager
	authService *auth.Service
}

func NewWebSocketHandler(sessions *query.Manager, authService *auth.Service) *WebSocketHandler {
	return &WebSocketHandler{sessions: sessions, authService: authService}
}

// HandleConnection runs an interactive chat over one socket. Browsers cannot
// set headers on the upgrade request, so the session token arrives as a
// query parameter.
func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	defer func() {
		c.Close()
		logger.Info("WebSocket connection closed")
	}()

	adminID, err := h.authService.ValidateToken(c.Query("token"))
	if err != nil {
		h.sendError(c, "Invalid or expired token")
		return
	}

	logger.Info("WebSocket connection established", zap.String("admin_id", adminID))

	for {
		var msg struct {
			Type    string `json:"type"`
			Content string `json:"content"`
		}

		if err := c.ReadJSON(&msg); err != nil {
			logger.Debug("WebSocket read ended", zap.Error(err))
			break
		}

		if msg.Type != "query" || strings.TrimSpace(msg.Content) == "" {
			continue
		}

		if err := h.streamResponse(c, adminID, msg.Content); err != nil {
			logger.Error("Failed to stream response", zap.Error(err))
			h.sendError(c, "Failed to process query")
		}
	}
}

func (h *WebSocketHandler) streamResponse(c *websocket.Conn, adminID, queryText string) error {
	if err := h.send(c, "status", "Processing query..."); err != nil {
		return err
	}

	result := h.sessions.ExecuteQuery(context.Background(), adminID, queryText)

	// Tables only make sense whole, so stream line by line rather than
	// word by word.
	for _, line := range strings.Split(result.Response, "\n") {
		if err := h.send(c, "chunk", line+"\n"); err != nil {
			return err
		}
	}

	return c.WriteJSON(map[string]interface{}{
		"type":          "complete",
		"message_id":    result.ID,
		"intent":        result.Intent,
		"confidence":    result.Confidence,
		"fallback_used": result.FallbackUsed,
		"latency_ms":    result.LatencyMS,
	})
}

func (h *WebSocketHandler) send(c *websocket.Conn, msgType, content string) error {
	return c.WriteJSON(map[string]interface{}{
		"type":    msgType,
		"content": content,
	})
}

func (h *WebSocketHandler) sendError(c *websocket.Conn, errorMsg string) {
	c.WriteJSON(map[string]interface{}{
		"type":  "error",
		"error": errorMsg,
	})
}
