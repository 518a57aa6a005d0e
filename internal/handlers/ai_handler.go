package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/inklore/inklore-backend/internal/auth"
	"github.com/inklore/inklore-backend/internal/dto"
	"github.com/inklore/inklore-backend/internal/services"
)

type AIHandler struct {
	generation *services.GenerationService
}

func NewAIHandler(generation *services.GenerationService) *AIHandler {
	return &AIHandler{generation: generation}
}

// GenerateArticle handles POST /ai/generate-article
func (h *AIHandler) GenerateArticle(c *fiber.Ctx) error {
	var req dto.GenerateArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return failure(c, "Invalid request body")
	}
	if req.Prompt == "" {
		return failure(c, "Prompt is required")
	}
	if req.Length <= 0 {
		return failure(c, "A positive length is required")
	}

	content, err := h.generation.GenerateArticle(c.UserContext(), auth.UserID(c), auth.Entitlement(c), req.Prompt, req.Length)
	if err != nil {
		return generationError(c, "generate-article", err)
	}

	return success(c, content)
}

// GenerateBlogTitle handles POST /ai/generate-blog-title
func (h *AIHandler) GenerateBlogTitle(c *fiber.Ctx) error {
	var req dto.GenerateBlogTitleRequest
	if err := c.BodyParser(&req); err != nil {
		return failure(c, "Invalid request body")
	}
	if req.Prompt == "" {
		return failure(c, "Prompt is required")
	}

	content, err := h.generation.GenerateBlogTitle(c.UserContext(), auth.UserID(c), auth.Entitlement(c), req.Prompt)
	if err != nil {
		return generationError(c, "generate-blog-title", err)
	}

	return success(c, content)
}

// GenerateImage handles POST /ai/generate-image
func (h *AIHandler) GenerateImage(c *fiber.Ctx) error {
	var req dto.GenerateImageRequest
	if err := c.BodyParser(&req); err != nil {
		return failure(c, "Invalid request body")
	}
	if req.Prompt == "" {
		return failure(c, "Prompt is required")
	}

	url, err := h.generation.GenerateImage(c.UserContext(), auth.UserID(c), auth.Entitlement(c), req.Prompt, req.Publish)
	if err != nil {
		return generationError(c, "generate-image", err)
	}

	return success(c, url)
}

// RemoveImageBackground handles POST /ai/remove-image-background
func (h *AIHandler) RemoveImageBackground(c *fiber.Ctx) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return failure(c, "An image upload is required")
	}

	f, err := fh.Open()
	if err != nil {
		return failure(c, "Failed to read uploaded image")
	}
	defer f.Close()

	url, err := h.generation.RemoveBackground(c.UserContext(), auth.UserID(c), auth.Entitlement(c), f, fh.Filename)
	if err != nil {
		return generationError(c, "remove-image-background", err)
	}

	return success(c, url)
}

// RemoveImageObject handles POST /ai/remove-image-object
func (h *AIHandler) RemoveImageObject(c *fiber.Ctx) error {
	object := c.FormValue("object")
	if object == "" {
		return failure(c, "An object to remove is required")
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return failure(c, "An image upload is required")
	}

	f, err := fh.Open()
	if err != nil {
		return failure(c, "Failed to read uploaded image")
	}
	defer f.Close()

	url, err := h.generation.RemoveObject(c.UserContext(), auth.UserID(c), auth.Entitlement(c), f, fh.Filename, object)
	if err != nil {
		return generationError(c, "remove-image-object", err)
	}

	return success(c, url)
}

// ResumeReview handles POST /ai/resume-review
func (h *AIHandler) ResumeReview(c *fiber.Ctx) error {
	fh, err := c.FormFile("resume")
	if err != nil {
		return failure(c, "A resume upload is required")
	}

	content, err := h.generation.ReviewResume(c.UserContext(), auth.UserID(c), auth.Entitlement(c), fh)
	if err != nil {
		return generationError(c, "resume-review", err)
	}

	return success(c, content)
}

func success(c *fiber.Ctx, content string) error {
	return c.JSON(dto.GenerateResponse{Success: true, Content: content})
}

func failure(c *fiber.Ctx, message string) error {
	return c.JSON(dto.GenerateResponse{Success: false, Message: message})
}

// generationError converts any service error into the uniform envelope.
// Provider and storage failures are logged; expected business conditions
// are not.
func generationError(c *fiber.Ctx, action string, err error) error {
	if !services.IsBusinessError(err) {
		slog.Error("generation failed",
			"action", action,
			"user_id", auth.UserID(c),
			"request_id", requestID(c),
			"error", err,
		)
	}
	return failure(c, err.Error())
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
