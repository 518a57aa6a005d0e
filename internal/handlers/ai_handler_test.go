package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/inklore/inklore-backend/internal/dto"
	"github.com/inklore/inklore-backend/internal/entitlement"
	"github.com/inklore/inklore-backend/internal/handlers"
	"github.com/inklore/inklore-backend/internal/identity"
	"github.com/inklore/inklore-backend/internal/models"
	"github.com/inklore/inklore-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	created   []*models.Creation
	byUser    []models.Creation
	published []models.Creation
	byID      *models.Creation
	getErr    error
	saved     []*models.Creation
}

func (f *fakeStore) Create(_ context.Context, creation *models.Creation) error {
	f.created = append(f.created, creation)
	return nil
}

func (f *fakeStore) ListByUser(_ context.Context, userID string) ([]models.Creation, error) {
	return f.byUser, nil
}

func (f *fakeStore) ListPublished(_ context.Context) ([]models.Creation, error) {
	return f.published, nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*models.Creation, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.byID, nil
}

func (f *fakeStore) Save(_ context.Context, creation *models.Creation) error {
	f.saved = append(f.saved, creation)
	return nil
}

type fakeIdentity struct {
	user    *identity.User
	getErr  error
	updErr  error
	updates []map[string]any
}

func (f *fakeIdentity) GetUser(_ context.Context, id string) (*identity.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.user != nil {
		return f.user, nil
	}
	return &identity.User{ID: id}, nil
}

func (f *fakeIdentity) UpdatePrivateMetadata(_ context.Context, id string, partial map[string]any) error {
	if f.updErr != nil {
		return f.updErr
	}
	f.updates = append(f.updates, partial)
	return nil
}

type fakeLLM struct {
	content string
	err     error
	calls   int
	prompt  string
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, maxTokens int) (string, error) {
	f.calls++
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.content, nil
}

type fakeImages struct {
	data  []byte
	err   error
	calls int
}

func (f *fakeImages) GenerateImage(_ context.Context, prompt string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func (f *fakeImages) RemoveBackground(_ context.Context, image io.Reader, filename string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func (f *fakeImages) RemoveObject(_ context.Context, image io.Reader, filename, object string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

type fakeStorage struct {
	url string
}

func (f *fakeStorage) Upload(_ context.Context, key, contentType string, data []byte) (string, error) {
	return f.url, nil
}

type fakeParser struct {
	text string
}

func (f *fakeParser) ExtractText(r io.ReaderAt, size int64) (string, error) {
	return f.text, nil
}

type testApp struct {
	app      *fiber.App
	store    *fakeStore
	provider *fakeIdentity
	llm      *fakeLLM
	images   *fakeImages
}

// newTestApp mounts the capability routes behind a middleware that injects
// the identity and entitlement the real auth chain would have resolved.
func newTestApp(ent entitlement.Entitlement) *testApp {
	ta := &testApp{
		store:    &fakeStore{},
		provider: &fakeIdentity{},
		llm:      &fakeLLM{content: "generated text"},
		images:   &fakeImages{data: []byte("png-bytes")},
	}

	generation := services.NewGenerationService(
		ta.store,
		entitlement.NewResolver(ta.provider),
		ta.llm,
		ta.images,
		&fakeStorage{url: "https://cdn.example.com/out.png"},
		&fakeParser{text: "resume text"},
	)
	aiHandler := handlers.NewAIHandler(generation)
	userHandler := handlers.NewUserHandler(services.NewCreationService(ta.store))

	app := fiber.New(fiber.Config{BodyLimit: 10 * 1024 * 1024})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "user_1")
		c.Locals("entitlement", ent)
		return c.Next()
	})

	ai := app.Group("/ai")
	ai.Post("/generate-article", aiHandler.GenerateArticle)
	ai.Post("/generate-blog-title", aiHandler.GenerateBlogTitle)
	ai.Post("/generate-image", aiHandler.GenerateImage)
	ai.Post("/remove-image-background", aiHandler.RemoveImageBackground)
	ai.Post("/remove-image-object", aiHandler.RemoveImageObject)
	ai.Post("/resume-review", aiHandler.ResumeReview)

	user := app.Group("/user")
	user.Get("/get-user-creations", userHandler.GetUserCreations)
	user.Get("/get-published-creations", userHandler.GetPublishedCreations)
	user.Post("/toggle-like-creation", userHandler.ToggleLikeCreation)

	ta.app = app
	return ta
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) (*http.Response, dto.GenerateResponse) {
	t.Helper()

	b, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var envelope dto.GenerateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func postMultipart(t *testing.T, app *fiber.App, path, fileField string, fileSize int, fields map[string]string) (*http.Response, dto.GenerateResponse) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, val := range fields {
		require.NoError(t, w.WriteField(key, val))
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, fileField+".bin")
		require.NoError(t, err)
		_, err = fw.Write(bytes.Repeat([]byte("a"), fileSize))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var envelope dto.GenerateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func TestGenerateArticleEndToEnd(t *testing.T) {
	ta := newTestApp(entitlement.Entitlement{Plan: entitlement.PlanFree, FreeUsage: 0})
	ta.llm.content = "Silver water runs"

	resp, envelope := postJSON(t, ta.app, "/ai/generate-article", dto.GenerateArticleRequest{
		Prompt: "Write a haiku about rivers",
		Length: 50,
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, envelope.Success)
	assert.Equal(t, "Silver water runs", envelope.Content)
	assert.Empty(t, envelope.Message)

	require.Len(t, ta.store.created, 1)
	assert.Equal(t, "user_1", ta.store.created[0].UserID)
	assert.Equal(t, models.CreationTypeArticle, ta.store.created[0].Type)

	require.Len(t, ta.provider.updates, 1)
	assert.Equal(t, map[string]any{"free_usage": 1}, ta.provider.updates[0])
}

func TestGenerateArticleValidation(t *testing.T) {
	ta := newTestApp(entitlement.Entitlement{Plan: entitlement.PlanFree})

	resp, envelope := postJSON(t, ta.app, "/ai/generate-article", dto.GenerateArticleRequest{Length: 50})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, envelope.Success)
	assert.Equal(t, "Prompt is required", envelope.Message)

	_, envelope = postJSON(t, ta.app, "/ai/generate-article", dto.GenerateArticleRequest{Prompt: "p"})
	assert.False(t, envelope.Success)
	assert.Equal(t, "A positive length is required", envelope.Message)

	assert.Zero(t, ta.llm.calls)
}

func TestGenerateArticleQuotaEnvelope(t *testing.T) {
	ta := newTestApp(entitlement.Entitlement{Plan: entitlement.PlanFree, FreeUsage: 10})

	resp, envelope := postJSON(t, ta.app, "/ai/generate-article", dto.GenerateArticleRequest{
		Prompt: "prompt",
		Length: 50,
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode, "business failures keep a 200 status")
	assert.False(t, envelope.Success)
	assert.Equal(t, "Limit reached. Upgrade to continue.", envelope.Message)
	assert.Zero(t, ta.llm.calls)
}

func TestGenerateBlogTitle(t *testing.T) {
	ta := newTestApp(entitlement.Entitlement{Plan: entitlement.PlanPremium})

	_, envelope := postJSON(t, ta.app, "/ai/generate-blog-title", dto.GenerateBlogTitleRequest{Prompt: "Titles about Go"})
	assert.True(t, envelope.Success)
	assert.Equal(t, "generated text", envelope.Content)
	assert.Empty(t, ta.provider.updates)
}

func TestGenerateImagePremiumGate(t *testing.T) {
	ta := newTestApp(entitlement.Entitlement{Plan: entitlement.PlanFree})

	resp, envelope := postJSON(t, ta.app, "/ai/generate-image", dto.GenerateImageRequest{Prompt: "a red fox"})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, envelope.Success)
	assert.Equal(t, "This feature is only available for premium subscriptions", envelope.Message)
	assert.Zero(t, ta.images.calls)
}

func TestGenerateImagePremium(t *testing.T) {
	ta := newTestApp(entitlement.Entitlement{Plan: entitlement.PlanPremium})

	_, envelope := postJSON(t, ta.app, "/ai/generate-image", dto.GenerateImageRequest{Prompt: "a red fox", Publish: true})
	assert.True(t, envelope.Success)
	assert.Equal(t, "https://cdn.example.com/out.png", envelope.Content)

	require.Len(t, ta.store.created, 1)
	assert.True(t, ta.store.created[0].Publish)
}

func TestRemoveImageBackgroundMissingFile(t *testing.T) {
	ta := newTestApp(entitlement.Entitlement{Plan: entitlement.PlanPremium})

	_, envelope := postMultipart(t, ta.app, "/ai/remove-image-background", "", 0, nil)
	assert.False(t, envelope.Success)
	assert.Equal(t, "An image upload is required", envelope.Message)
}

func TestRemoveImageObjectMissingObject(t *testing.T) {
	ta := newTestApp(entitlement.Entitlement{Plan: entitlement.PlanPremium})

	_, envelope := postMultipart(t, ta.app, "/ai/remove-image-object", "image", 16, nil)
	assert.False(t, envelope.Success)
	assert.Equal(t, "An object to remove is required", envelope.Message)
	assert.Zero(t, ta.images.calls)
}

func TestRemoveImageObject(t *testing.T) {
	ta := newTestApp(entitlement.Entitlement{Plan: entitlement.PlanPremium})

	_, envelope := postMultipart(t, ta.app, "/ai/remove-image-object", "image", 16, map[string]string{"object": "lamp post"})
	assert.True(t, envelope.Success)
	assert.Equal(t, "https://cdn.example.com/out.png", envelope.Content)
}

func TestResumeReview(t *testing.T) {
	ta := newTestApp(entitlement.Entitlement{Plan: entitlement.PlanPremium})
	ta.llm.content = "Strong resume overall"

	_, envelope := postMultipart(t, ta.app, "/ai/resume-review", "resume", 1024, nil)
	assert.True(t, envelope.Success)
	assert.Equal(t, "Strong resume overall", envelope.Content)
	assert.Contains(t, ta.llm.prompt, "resume text")
}

func TestResumeReviewTooLarge(t *testing.T) {
	ta := newTestApp(entitlement.Entitlement{Plan: entitlement.PlanPremium})

	resp, envelope := postMultipart(t, ta.app, "/ai/resume-review", "resume", services.MaxResumeSize+1, nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, envelope.Success)
	assert.Equal(t, "Resume file size exceeds allowed size (5MB).", envelope.Message)
	assert.Zero(t, ta.llm.calls)
}

func TestProviderFailureEnvelope(t *testing.T) {
	ta := newTestApp(entitlement.Entitlement{Plan: entitlement.PlanFree})
	ta.llm.err = errors.New("upstream timeout")

	resp, envelope := postJSON(t, ta.app, "/ai/generate-article", dto.GenerateArticleRequest{
		Prompt: "prompt",
		Length: 50,
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, envelope.Success)
	assert.Equal(t, "upstream timeout", envelope.Message)
	assert.Empty(t, ta.store.created)
}
