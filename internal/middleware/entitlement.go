package middleware

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/inklore/inklore-backend/internal/auth"
	"github.com/inklore/inklore-backend/internal/dto"
	"github.com/inklore/inklore-backend/internal/entitlement"
)

// WithEntitlement resolves the caller's plan and free-usage counter and
// stores them in context locals for the handlers.
func WithEntitlement(resolver *entitlement.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.TokenUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.GenerateResponse{
				Success: false,
				Message: "Unauthorized",
			})
		}

		ent, err := resolver.Resolve(c.UserContext(), userID)
		if err != nil {
			slog.Error("entitlement resolution failed", "user_id", userID, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.GenerateResponse{
				Success: false,
				Message: err.Error(),
			})
		}

		c.Locals("user_id", userID)
		c.Locals("entitlement", *ent)
		return c.Next()
	}
}
