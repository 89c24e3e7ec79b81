package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/shipsocial/shipsocial-api/internal/quota"
	"github.com/shipsocial/shipsocial-api/internal/service"
	"github.com/shipsocial/shipsocial-api/internal/transfer"
)

func GetBrandID(c *fiber.Ctx) string {
	brandID, _ := c.Locals("brand_id").(string)
	return brandID
}

// parseBody decodes the JSON body into dst and runs its validation tags.
// Failures wrap service.ErrInvalidInput.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fmt.Errorf("%w: invalid request body", service.ErrInvalidInput)
	}
	if err := transfer.Validate(dst); err != nil {
		return fmt.Errorf("%w: %s", service.ErrInvalidInput, err)
	}
	return nil
}

// errorResponse maps service errors onto HTTP statuses.
func errorResponse(c *fiber.Ctx, err error) error {
	var qe *service.QuotaError
	switch {
	case errors.As(err, &qe):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error":    "Daily generation limit reached",
			"left":     qe.Result.Left,
			"resetsAt": qe.Result.ResetsAt.Format(time.RFC3339),
			"retryIn":  qe.Result.RetryIn,
		})
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidState):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidWindow),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, quota.ErrInvalidAmount):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Something went wrong",
	})
}

func creditsBody(r quota.Result) transfer.Credits {
	return transfer.Credits{
		Daily:    r.Daily,
		Used:     r.Used,
		Left:     r.Left,
		ResetsAt: r.ResetsAt,
		RetryIn:  r.RetryIn,
	}
}
