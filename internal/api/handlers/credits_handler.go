package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shipsocial/shipsocial-api/internal/service"
)

type creditsAmount struct {
	Amount int `json:"amount" validate:"omitempty,min=1"`
}

type CreditsHandler struct {
	s service.CreditsService
}

func NewCreditsHandler(service service.CreditsService) *CreditsHandler {
	return &CreditsHandler{s: service}
}

func (h *CreditsHandler) GetCredits(c *fiber.Ctx) error {
	res, err := h.s.Peek(c.Context(), GetBrandID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(creditsBody(res))
}

func (h *CreditsHandler) Consume(c *fiber.Ctx) error {
	amount, err := h.amount(c)
	if err != nil {
		return errorResponse(c, err)
	}

	res, err := h.s.TryConsume(c.Context(), GetBrandID(c), amount)
	if err != nil {
		return errorResponse(c, err)
	}
	if !res.Granted {
		return errorResponse(c, &service.QuotaError{Result: res})
	}
	return c.Status(fiber.StatusOK).JSON(creditsBody(res))
}

func (h *CreditsHandler) Refund(c *fiber.Ctx) error {
	amount, err := h.amount(c)
	if err != nil {
		return errorResponse(c, err)
	}

	res, err := h.s.Refund(c.Context(), GetBrandID(c), amount)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(creditsBody(res))
}

func (h *CreditsHandler) Reset(c *fiber.Ctx) error {
	res, err := h.s.Reset(c.Context(), GetBrandID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(creditsBody(res))
}

// amount reads {amount}, defaulting to 1.
func (h *CreditsHandler) amount(c *fiber.Ctx) (int, error) {
	in := creditsAmount{Amount: 1}
	if len(c.Body()) > 0 {
		if err := parseBody(c, &in); err != nil {
			return 0, err
		}
		if in.Amount == 0 {
			in.Amount = 1
		}
	}
	return in.Amount, nil
}
