package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/shipsocial/shipsocial-api/internal/service"
	"github.com/shipsocial/shipsocial-api/internal/transfer"
)

type ExportHandler struct {
	s service.ExportService
}

func NewExportHandler(service service.ExportService) *ExportHandler {
	return &ExportHandler{s: service}
}

// ExportAll downloads every scheduled post.
func (h *ExportHandler) ExportAll(c *fiber.Ctx) error {
	return h.export(c, nil)
}

// ExportSelected downloads the scheduled posts named in {ids}.
func (h *ExportHandler) ExportSelected(c *fiber.Ctx) error {
	var in transfer.Export
	if err := parseBody(c, &in); err != nil {
		return errorResponse(c, err)
	}
	if len(in.IDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Provide { ids: string[] }",
		})
	}
	return h.export(c, in.IDs)
}

func (h *ExportHandler) export(c *fiber.Ctx, ids []string) error {
	body, name, err := h.s.ScheduledCSV(c.Context(), GetBrandID(c), ids)
	if err != nil {
		return errorResponse(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Status(fiber.StatusOK).Send(body)
}
