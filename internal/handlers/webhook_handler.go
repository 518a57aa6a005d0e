package handlers

import (
	"crypto/subtle"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/inklore/inklore-backend/internal/dto"
	"github.com/inklore/inklore-backend/internal/entitlement"
	"github.com/inklore/inklore-backend/internal/identity"
)

// WebhookHandler receives billing events and writes the plan back to the
// identity provider's private metadata.
type WebhookHandler struct {
	provider identity.Provider
	secret   string
}

func NewWebhookHandler(provider identity.Provider, secret string) *WebhookHandler {
	return &WebhookHandler{provider: provider, secret: secret}
}

// HandleBilling handles POST /webhooks/billing with shared-secret auth.
func (h *WebhookHandler) HandleBilling(c *fiber.Ctx) error {
	if h.secret == "" {
		return c.Status(fiber.StatusNotFound).JSON(dto.GenerateResponse{
			Success: false, Message: "Webhooks not configured",
		})
	}

	authHeader := c.Get("Authorization")
	if subtle.ConstantTimeCompare([]byte(authHeader), []byte(h.secret)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.GenerateResponse{
			Success: false, Message: "Unauthorized",
		})
	}

	var webhook dto.BillingWebhook
	if err := c.BodyParser(&webhook); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.GenerateResponse{
			Success: false, Message: "Invalid webhook payload",
		})
	}

	event := webhook.Event
	if event.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.GenerateResponse{
			Success: false, Message: "Missing user_id",
		})
	}

	var plan entitlement.Plan
	switch event.Type {
	case "INITIAL_PURCHASE", "RENEWAL":
		plan = entitlement.PlanPremium
	case "EXPIRATION":
		plan = entitlement.PlanFree
	default:
		// Cancellation keeps premium until expiry; unknown events are acked.
		return c.JSON(fiber.Map{"received": true})
	}

	if err := h.provider.UpdatePrivateMetadata(c.UserContext(), event.UserID, map[string]any{
		"plan": string(plan),
	}); err != nil {
		slog.Error("webhook processing failed", "event_type", event.Type, "user_id", event.UserID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.GenerateResponse{
			Success: false, Message: "Failed to process webhook event",
		})
	}

	slog.Info("webhook processed", "event_type", event.Type, "plan", plan)
	return c.JSON(fiber.Map{"received": true})
}
