package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/inklore/inklore-backend/internal/dto"
	"github.com/inklore/inklore-backend/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWebhookApp(provider *fakeIdentity, secret string) *fiber.App {
	app := fiber.New()
	app.Post("/webhooks/billing", handlers.NewWebhookHandler(provider, secret).HandleBilling)
	return app
}

func postWebhook(t *testing.T, app *fiber.App, secret string, webhook dto.BillingWebhook) *http.Response {
	t.Helper()

	b, err := json.Marshal(webhook)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/billing", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set("Authorization", secret)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func billingEvent(eventType, userID string) dto.BillingWebhook {
	return dto.BillingWebhook{
		APIVersion: "1.0",
		Event:      dto.BillingEvent{Type: eventType, ID: "evt_1", UserID: userID},
	}
}

func TestWebhookNotConfigured(t *testing.T) {
	app := newWebhookApp(&fakeIdentity{}, "")

	resp := postWebhook(t, app, "any", billingEvent("INITIAL_PURCHASE", "user_1"))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebhookBadSecret(t *testing.T) {
	provider := &fakeIdentity{}
	app := newWebhookApp(provider, "whsec_good")

	resp := postWebhook(t, app, "whsec_bad", billingEvent("INITIAL_PURCHASE", "user_1"))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, provider.updates)
}

func TestWebhookPurchaseGrantsPremium(t *testing.T) {
	provider := &fakeIdentity{}
	app := newWebhookApp(provider, "whsec_good")

	resp := postWebhook(t, app, "whsec_good", billingEvent("INITIAL_PURCHASE", "user_1"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, provider.updates, 1)
	assert.Equal(t, map[string]any{"plan": "premium"}, provider.updates[0])
}

func TestWebhookRenewalGrantsPremium(t *testing.T) {
	provider := &fakeIdentity{}
	app := newWebhookApp(provider, "whsec_good")

	postWebhook(t, app, "whsec_good", billingEvent("RENEWAL", "user_1"))

	require.Len(t, provider.updates, 1)
	assert.Equal(t, map[string]any{"plan": "premium"}, provider.updates[0])
}

func TestWebhookExpirationRevertsToFree(t *testing.T) {
	provider := &fakeIdentity{}
	app := newWebhookApp(provider, "whsec_good")

	resp := postWebhook(t, app, "whsec_good", billingEvent("EXPIRATION", "user_1"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, provider.updates, 1)
	assert.Equal(t, map[string]any{"plan": "free"}, provider.updates[0])
}

func TestWebhookCancellationAckedWithoutChange(t *testing.T) {
	provider := &fakeIdentity{}
	app := newWebhookApp(provider, "whsec_good")

	resp := postWebhook(t, app, "whsec_good", billingEvent("CANCELLATION", "user_1"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, provider.updates, "cancellation keeps the plan until expiry")
}

func TestWebhookMissingUserID(t *testing.T) {
	provider := &fakeIdentity{}
	app := newWebhookApp(provider, "whsec_good")

	resp := postWebhook(t, app, "whsec_good", billingEvent("INITIAL_PURCHASE", ""))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, provider.updates)
}

func TestWebhookProviderFailure(t *testing.T) {
	provider := &fakeIdentity{updErr: errors.New("identity provider down")}
	app := newWebhookApp(provider, "whsec_good")

	resp := postWebhook(t, app, "whsec_good", billingEvent("INITIAL_PURCHASE", "user_1"))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
