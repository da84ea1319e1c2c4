package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/edu-agent/backend/internal/auth"
	"github.com/edu-agent/backend/internal/storage/datastore"
	"github.com/edu-agent/backend/pkg/logger"
)

type AuthHandler struct {
	authService *auth.Service
	store       *datastore.Store
}

func NewAuthHandler(authService *auth.Service, store *datastore.Store) *AuthHandler {
	return &AuthHandler{authService: authService, store: store}
}

// Login exchanges an admin ID and access code for a session token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req struct {
		AdminID    string `json:"admin_id"`
		AccessCode string `json:"access_code"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse login body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.AdminID == "" || req.AccessCode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "admin_id and access_code are required",
		})
	}

	token, info, err := h.authService.Login(req.AdminID, req.AccessCode)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid admin ID or access code",
			})
		}
		logger.Error("Login failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process login",
		})
	}

	return c.JSON(fiber.Map{
		"token":      token,
		"token_type": "Bearer",
		"expires_in": int64(h.authService.TokenTTL().Seconds()),
		"admin":      info,
	})
}

// ListAdmins serves the login picker: IDs and names only, never access codes
// or scopes.
func (h *AuthHandler) ListAdmins(c *fiber.Ctx) error {
	profiles := h.store.Admins()

	admins := make([]fiber.Map, 0, len(profiles))
	for _, p := range profiles {
		admins = append(admins, fiber.Map{
			"admin_id":   p.AdminID,
			"admin_name": p.AdminName,
		})
	}

	return c.JSON(fiber.Map{"admins": admins})
}
