package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	config "github.com/shipsocial/shipsocial-api/configs"
	"github.com/shipsocial/shipsocial-api/internal/service"
	"github.com/shipsocial/shipsocial-api/internal/transfer"
	"github.com/shipsocial/shipsocial-api/pkg/utils"
)

const sessionDuration = 24 * time.Hour

type BrandHandler struct {
	s   service.BrandService
	cfg config.Config
}

func NewBrandHandler(cfg config.Config, service service.BrandService) *BrandHandler {
	return &BrandHandler{s: service, cfg: cfg}
}

// Onboard creates a brand and starts a session for it.
func (h *BrandHandler) Onboard(c *fiber.Ctx) error {
	var in transfer.Onboard
	if len(c.Body()) > 0 {
		if err := parseBody(c, &in); err != nil {
			return errorResponse(c, err)
		}
	}

	res, err := h.s.Onboard(c.Context(), &in)
	if err != nil {
		return errorResponse(c, err)
	}

	token, err := utils.GenerateToken(h.cfg.SecretKey, res.Brand.ID, sessionDuration)
	if err != nil {
		return errorResponse(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		HTTPOnly: true,
		Secure:   false,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
		Expires:  time.Now().Add(sessionDuration),
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"brand":   res.Brand,
		"pillars": res.Pillars,
		"apiKey":  res.ApiKey,
		"token":   token,
	})
}

func (h *BrandHandler) GetBrand(c *fiber.Ctx) error {
	brand, err := h.s.Get(c.Context(), GetBrandID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(brand)
}

func (h *BrandHandler) UpdateBrand(c *fiber.Ctx) error {
	var in transfer.Onboard
	if err := parseBody(c, &in); err != nil {
		return errorResponse(c, err)
	}

	brand, err := h.s.Update(c.Context(), GetBrandID(c), &in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(brand)
}

func (h *BrandHandler) ResetDemo(c *fiber.Ctx) error {
	res, err := h.s.ResetDemo(c.Context(), GetBrandID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"brand":   res.Brand,
		"pillars": res.Pillars,
		"windows": res.Windows,
		"credits": creditsBody(res.Credits),
	})
}

func (h *BrandHandler) ListPillars(c *fiber.Ctx) error {
	pillars, err := h.s.ListPillars(c.Context(), GetBrandID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(pillars)
}

func (h *BrandHandler) CreatePillar(c *fiber.Ctx) error {
	var in transfer.PillarCreation
	if err := parseBody(c, &in); err != nil {
		return errorResponse(c, err)
	}

	pillar, err := h.s.CreatePillar(c.Context(), GetBrandID(c), &in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(pillar)
}

func (h *BrandHandler) RemovePillar(c *fiber.Ctx) error {
	if err := h.s.RemovePillar(c.Context(), GetBrandID(c), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}
