package handlers

import (
	"github.com/gofiber/fiber/v2"

	authmw "github.com/edu-agent/backend/internal/middleware/auth"
	"github.com/edu-agent/backend/internal/storage/datastore"
)

type AdminHandler struct {
	store *datastore.Store
}

func NewAdminHandler(store *datastore.Store) *AdminHandler {
	return &AdminHandler{store: store}
}

// GetAdminInfo returns the authenticated admin's denormalized profile.
func (h *AdminHandler) GetAdminInfo(c *fiber.Ctx) error {
	adminID := authmw.AdminID(c)

	info := h.store.AdminInfo(adminID)
	if info == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Admin not found",
		})
	}

	return c.JSON(info)
}

// GetAnalytics serves the dashboard aggregates over the admin's scope.
func (h *AdminHandler) GetAnalytics(c *fiber.Ctx) error {
	adminID := authmw.AdminID(c)

	analytics := h.store.ClassAnalytics(adminID)
	if analytics == nil {
		return c.JSON(fiber.Map{
			"analytics": nil,
			"message":   "No data available for your scope",
		})
	}

	return c.JSON(fiber.Map{"analytics": analytics})
}

// GetSupportList serves the dashboard pane of students below the threshold
// or missing homework.
func (h *AdminHandler) GetSupportList(c *fiber.Ctx) error {
	adminID := authmw.AdminID(c)
	threshold := c.QueryFloat("threshold", 75)

	students := h.store.StudentsNeedingSupport(adminID, threshold)
	return c.JSON(fiber.Map{
		"threshold": threshold,
		"count":     len(students),
		"students":  students,
	})
}

// GetHighPerformers serves the dashboard pane of students at or above the
// threshold with homework submitted.
func (h *AdminHandler) GetHighPerformers(c *fiber.Ctx) error {
	adminID := authmw.AdminID(c)
	threshold := c.QueryFloat("threshold", 90)

	students := h.store.HighPerformers(adminID, threshold)
	return c.JSON(fiber.Map{
		"threshold": threshold,
		"count":     len(students),
		"students":  students,
	})
}
