package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/edu-agent/backend/internal/export"
	authmw "github.com/edu-agent/backend/internal/middleware/auth"
	"github.com/edu-agent/backend/internal/storage/datastore"
	"github.com/edu-agent/backend/pkg/logger"
)

type ExportHandler struct {
	store *datastore.Store
}

func NewExportHandler(store *datastore.Store) *ExportHandler {
	return &ExportHandler{store: store}
}

// Export downloads the admin's scoped view as CSV or JSON.
func (h *ExportHandler) Export(c *fiber.Ctx) error {
	adminID := authmw.AdminID(c)
	format := c.Query("format", "csv")

	records := h.store.FilterByScope(adminID)
	stamp := time.Now().Format("20060102")

	switch format {
	case "csv":
		data, err := export.CSV(records)
		if err != nil {
			logger.Error("CSV export failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to export data",
			})
		}
		c.Set(fiber.HeaderContentType, "text/csv")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="my_students_%s.csv"`, stamp))
		return c.SendString(data)

	case "json":
		data, err := export.JSON(records)
		if err != nil {
			logger.Error("JSON export failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to export data",
			})
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="my_students_%s.json"`, stamp))
		return c.SendString(data)

	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "format must be csv or json",
		})
	}
}
