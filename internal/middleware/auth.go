package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/inklore/inklore-backend/internal/config"
	"github.com/inklore/inklore-backend/internal/dto"
)

// ClerkProtected verifies Clerk session JWTs against the instance JWKS
// endpoint. Authentication failures are the only transport-level errors
// the API returns.
func ClerkProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		JWKSetURLs: []string{cfg.ClerkJWKSURL},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.GenerateResponse{
				Success: false,
				Message: "Unauthorized",
			})
		},
	})
}
