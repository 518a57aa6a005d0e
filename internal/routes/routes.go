package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/inklore/inklore-backend/internal/config"
	"github.com/inklore/inklore-backend/internal/entitlement"
	"github.com/inklore/inklore-backend/internal/handlers"
	"github.com/inklore/inklore-backend/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	resolver *entitlement.Resolver,
	aiHandler *handlers.AIHandler,
	userHandler *handlers.UserHandler,
	webhookHandler *handlers.WebhookHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Health (public)
	api.Get("/health", healthHandler.Check)

	// Billing webhook — shared-secret auth, no JWT
	api.Post("/webhooks/billing", webhookHandler.HandleBilling)

	// Everything else requires a verified Clerk session plus a resolved
	// entitlement (plan + free-usage counter) in locals.
	protected := api.Group("", middleware.ClerkProtected(cfg), middleware.WithEntitlement(resolver))

	ai := protected.Group("/ai")
	ai.Post("/generate-article", aiHandler.GenerateArticle)
	ai.Post("/generate-blog-title", aiHandler.GenerateBlogTitle)
	ai.Post("/generate-image", aiHandler.GenerateImage)
	ai.Post("/remove-image-background", aiHandler.RemoveImageBackground)
	ai.Post("/remove-image-object", aiHandler.RemoveImageObject)
	ai.Post("/resume-review", aiHandler.ResumeReview)

	user := protected.Group("/user")
	user.Get("/get-user-creations", userHandler.GetUserCreations)
	user.Get("/get-published-creations", userHandler.GetPublishedCreations)
	user.Post("/toggle-like-creation", userHandler.ToggleLikeCreation)
}
