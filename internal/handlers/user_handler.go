package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/inklore/inklore-backend/internal/auth"
	"github.com/inklore/inklore-backend/internal/dto"
	"github.com/inklore/inklore-backend/internal/services"
)

type UserHandler struct {
	creations *services.CreationService
}

func NewUserHandler(creations *services.CreationService) *UserHandler {
	return &UserHandler{creations: creations}
}

// GetUserCreations handles GET /user/get-user-creations
func (h *UserHandler) GetUserCreations(c *fiber.Ctx) error {
	creations, err := h.creations.GetUserCreations(c.UserContext(), auth.UserID(c))
	if err != nil {
		return failure(c, err.Error())
	}
	return c.JSON(dto.CreationListResponse{Success: true, Creations: creations})
}

// GetPublishedCreations handles GET /user/get-published-creations
func (h *UserHandler) GetPublishedCreations(c *fiber.Ctx) error {
	creations, err := h.creations.GetPublishedCreations(c.UserContext())
	if err != nil {
		return failure(c, err.Error())
	}
	return c.JSON(dto.CreationListResponse{Success: true, Creations: creations})
}

// ToggleLikeCreation handles POST /user/toggle-like-creation
func (h *UserHandler) ToggleLikeCreation(c *fiber.Ctx) error {
	var req dto.ToggleLikeRequest
	if err := c.BodyParser(&req); err != nil {
		return failure(c, "Invalid request body")
	}

	creationID, err := uuid.Parse(req.ID)
	if err != nil {
		return failure(c, "Invalid creation ID")
	}

	message, err := h.creations.ToggleLike(c.UserContext(), auth.UserID(c), creationID)
	if err != nil {
		if errors.Is(err, services.ErrCreationNotFound) {
			return failure(c, "Creation not found")
		}
		return failure(c, err.Error())
	}

	return c.JSON(dto.GenerateResponse{Success: true, Message: message})
}
