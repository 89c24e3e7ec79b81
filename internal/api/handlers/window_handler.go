package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shipsocial/shipsocial-api/internal/service"
	"github.com/shipsocial/shipsocial-api/internal/transfer"
)

type WindowHandler struct {
	s service.WindowService
}

func NewWindowHandler(service service.WindowService) *WindowHandler {
	return &WindowHandler{s: service}
}

func (h *WindowHandler) ListWindows(c *fiber.Ctx) error {
	view, err := h.s.List(c.Context(), GetBrandID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(view)
}

func (h *WindowHandler) UpdateWindows(c *fiber.Ctx) error {
	var in transfer.WindowsUpdate
	if err := parseBody(c, &in); err != nil {
		return errorResponse(c, err)
	}

	view, err := h.s.Update(c.Context(), GetBrandID(c), &in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(view)
}
