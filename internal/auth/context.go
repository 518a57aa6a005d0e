// Package auth extracts request identity and entitlement from Fiber context
// locals populated by the middleware chain.
package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/inklore/inklore-backend/internal/entitlement"
)

// TokenUserID extracts the subject claim from the verified JWT in context.
func TokenUserID(c *fiber.Ctx) (string, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return "", errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("missing sub claim")
	}

	return sub, nil
}

// UserID returns the user ID stored by the entitlement middleware.
func UserID(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok {
		return id
	}
	return ""
}

// Entitlement returns the resolved entitlement stored by the middleware.
func Entitlement(c *fiber.Ctx) entitlement.Entitlement {
	if ent, ok := c.Locals("entitlement").(entitlement.Entitlement); ok {
		return ent
	}
	return entitlement.Entitlement{Plan: entitlement.PlanFree}
}
