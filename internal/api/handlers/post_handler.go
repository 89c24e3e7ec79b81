package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/shipsocial/shipsocial-api/internal/models"
	"github.com/shipsocial/shipsocial-api/internal/service"
	"github.com/shipsocial/shipsocial-api/internal/transfer"
)

type PostHandler struct {
	s service.PostService
}

func NewPostHandler(service service.PostService) *PostHandler {
	return &PostHandler{s: service}
}

func (h *PostHandler) GeneratePost(c *fiber.Ctx) error {
	var in transfer.PostGeneration
	if err := parseBody(c, &in); err != nil {
		return errorResponse(c, err)
	}

	post, err := h.s.Generate(c.Context(), GetBrandID(c), &in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PostHandler) RegeneratePost(c *fiber.Ctx) error {
	post, err := h.s.Regenerate(c.Context(), GetBrandID(c), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	filter := models.PostFilter{
		Status: models.PostStatus(c.Query("status")),
		Limit:  c.QueryInt("limit", 0),
	}

	posts, count, err := h.s.List(c.Context(), GetBrandID(c), filter)
	if err != nil {
		return errorResponse(c, err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return c.Status(fiber.StatusOK).JSON(transfer.PostList{Posts: posts, Count: count})
}

func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	post, err := h.s.PostInfo(c.Context(), GetBrandID(c), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *PostHandler) RemovePost(c *fiber.Ctx) error {
	if err := h.s.Remove(c.Context(), GetBrandID(c), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *PostHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.s.Stats(c.Context(), GetBrandID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(stats)
}

// UploadAsset reads the multipart "file" field and attaches it to the post.
func (h *PostHandler) UploadAsset(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file selected",
		})
	}

	f, err := header.Open()
	if err != nil {
		return errorResponse(c, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return errorResponse(c, err)
	}

	post, err := h.s.AttachAsset(c.Context(), GetBrandID(c), c.Params("id"), data)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}
