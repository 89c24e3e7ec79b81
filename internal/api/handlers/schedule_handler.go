package handlers

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/shipsocial/shipsocial-api/internal/queue"
	"github.com/shipsocial/shipsocial-api/internal/service"
	"github.com/shipsocial/shipsocial-api/internal/transfer"
)

type ScheduleHandler struct {
	s     service.ScheduleService
	tasks queue.Enqueuer
}

// NewScheduleHandler builds the handler. With a nil tasks client no publish
// task is queued and only the periodic sweep publishes.
func NewScheduleHandler(service service.ScheduleService, tasks queue.Enqueuer) *ScheduleHandler {
	return &ScheduleHandler{s: service, tasks: tasks}
}

func (h *ScheduleHandler) SchedulePost(c *fiber.Ctx) error {
	var in transfer.Schedule
	if len(c.Body()) > 0 {
		if err := parseBody(c, &in); err != nil {
			return errorResponse(c, err)
		}
	}

	brandID := GetBrandID(c)
	res, err := h.s.SchedulePost(c.Context(), brandID, c.Params("id"), in.Platform)
	if err != nil {
		return errorResponse(c, err)
	}

	if h.tasks != nil {
		payload := queue.PublishPostPayload{PostID: res.Post.ID, BrandID: brandID, ScheduledAt: res.ScheduledAt}
		if err := queue.EnqueuePublish(c.Context(), h.tasks, payload); err != nil {
			slog.Warn("publish task not queued, sweep will pick it up", "post_id", res.Post.ID, "error", err)
		}
	}

	return c.Status(fiber.StatusOK).JSON(transfer.ScheduleResponse{
		Post:        res.Post,
		ScheduledAt: res.ScheduledAt.Format(time.RFC3339),
		Window:      res.Window.String(),
		Nudged:      res.Nudged,
	})
}

func (h *ScheduleHandler) UnschedulePost(c *fiber.Ctx) error {
	post, err := h.s.UnschedulePost(c.Context(), GetBrandID(c), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *ScheduleHandler) PublishPost(c *fiber.Ctx) error {
	post, err := h.s.PublishPost(c.Context(), GetBrandID(c), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}
