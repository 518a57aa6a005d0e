package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/inklore/inklore-backend/internal/entitlement"
	"github.com/inklore/inklore-backend/internal/models"
)

// MaxResumeSize is the inclusive upper bound for resume uploads.
const MaxResumeSize = 5 * 1024 * 1024

const blogTitleMaxTokens = 100
const resumeReviewMaxTokens = 1000

// Business failures returned as {success:false, message} envelopes.
// Messages are user-facing.
var (
	ErrQuotaExceeded   = errors.New("Limit reached. Upgrade to continue.")
	ErrPremiumRequired = errors.New("This feature is only available for premium subscriptions")
	ErrFileTooLarge    = errors.New("Resume file size exceeds allowed size (5MB).")
)

// IsBusinessError reports whether err is an expected user-facing condition
// rather than a provider or storage defect.
func IsBusinessError(err error) bool {
	return errors.Is(err, ErrQuotaExceeded) ||
		errors.Is(err, ErrPremiumRequired) ||
		errors.Is(err, ErrFileTooLarge)
}

type TextGenerator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
	RemoveBackground(ctx context.Context, image io.Reader, filename string) ([]byte, error)
	RemoveObject(ctx context.Context, image io.Reader, filename, object string) ([]byte, error)
}

type ObjectStorage interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

type ResumeParser interface {
	ExtractText(r io.ReaderAt, size int64) (string, error)
}

// GenerationService runs one capability per call: gate on entitlement, call
// exactly one provider, persist one creation row, and for free-tier text
// generations bump the usage counter.
type GenerationService struct {
	store    CreationStore
	resolver *entitlement.Resolver
	llm      TextGenerator
	images   ImageGenerator
	storage  ObjectStorage
	parser   ResumeParser
}

func NewGenerationService(
	store CreationStore,
	resolver *entitlement.Resolver,
	llm TextGenerator,
	images ImageGenerator,
	storage ObjectStorage,
	parser ResumeParser,
) *GenerationService {
	return &GenerationService{
		store:    store,
		resolver: resolver,
		llm:      llm,
		images:   images,
		storage:  storage,
		parser:   parser,
	}
}

// GenerateArticle produces article text with a caller-supplied length bound.
func (s *GenerationService) GenerateArticle(ctx context.Context, userID string, ent entitlement.Entitlement, prompt string, length int) (string, error) {
	return s.generateText(ctx, userID, ent, prompt, length, prompt, models.CreationTypeArticle)
}

// GenerateBlogTitle produces blog titles with a fixed length bound.
func (s *GenerationService) GenerateBlogTitle(ctx context.Context, userID string, ent entitlement.Entitlement, prompt string) (string, error) {
	return s.generateText(ctx, userID, ent, prompt, blogTitleMaxTokens, prompt, models.CreationTypeBlogTitle)
}

func (s *GenerationService) generateText(ctx context.Context, userID string, ent entitlement.Entitlement, prompt string, maxTokens int, storedPrompt, creationType string) (string, error) {
	if ent.Plan != entitlement.PlanPremium && ent.FreeUsage >= entitlement.FreeUsageLimit {
		return "", ErrQuotaExceeded
	}

	content, err := s.llm.Generate(ctx, prompt, maxTokens)
	if err != nil {
		return "", err
	}

	if err := s.store.Create(ctx, &models.Creation{
		UserID:  userID,
		Prompt:  storedPrompt,
		Content: content,
		Type:    creationType,
	}); err != nil {
		return "", err
	}

	if ent.Plan != entitlement.PlanPremium {
		if err := s.resolver.IncrementUsage(ctx, userID, ent.FreeUsage); err != nil {
			return "", err
		}
	}

	return content, nil
}

// GenerateImage synthesizes an image from a prompt and stores it. Premium only.
func (s *GenerationService) GenerateImage(ctx context.Context, userID string, ent entitlement.Entitlement, prompt string, publish bool) (string, error) {
	if ent.Plan != entitlement.PlanPremium {
		return "", ErrPremiumRequired
	}

	data, err := s.images.GenerateImage(ctx, prompt)
	if err != nil {
		return "", err
	}

	url, err := s.storage.Upload(ctx, "generations/"+uuid.NewString()+".png", "image/png", data)
	if err != nil {
		return "", err
	}

	if err := s.store.Create(ctx, &models.Creation{
		UserID:  userID,
		Prompt:  prompt,
		Content: url,
		Type:    models.CreationTypeImage,
		Publish: publish,
	}); err != nil {
		return "", err
	}

	return url, nil
}

// RemoveBackground erases the background of an uploaded image. Premium only.
func (s *GenerationService) RemoveBackground(ctx context.Context, userID string, ent entitlement.Entitlement, image io.Reader, filename string) (string, error) {
	if ent.Plan != entitlement.PlanPremium {
		return "", ErrPremiumRequired
	}

	data, err := s.images.RemoveBackground(ctx, image, filename)
	if err != nil {
		return "", err
	}

	url, err := s.storage.Upload(ctx, "edits/"+uuid.NewString()+".png", "image/png", data)
	if err != nil {
		return "", err
	}

	if err := s.store.Create(ctx, &models.Creation{
		UserID:  userID,
		Prompt:  "Remove background from image",
		Content: url,
		Type:    models.CreationTypeImage,
	}); err != nil {
		return "", err
	}

	return url, nil
}

// RemoveObject erases the named object from an uploaded image. Premium only.
func (s *GenerationService) RemoveObject(ctx context.Context, userID string, ent entitlement.Entitlement, image io.Reader, filename, object string) (string, error) {
	if ent.Plan != entitlement.PlanPremium {
		return "", ErrPremiumRequired
	}

	data, err := s.images.RemoveObject(ctx, image, filename, object)
	if err != nil {
		return "", err
	}

	url, err := s.storage.Upload(ctx, "edits/"+uuid.NewString()+".png", "image/png", data)
	if err != nil {
		return "", err
	}

	if err := s.store.Create(ctx, &models.Creation{
		UserID:  userID,
		Prompt:  fmt.Sprintf("Removed %s from image", object),
		Content: url,
		Type:    models.CreationTypeImage,
	}); err != nil {
		return "", err
	}

	return url, nil
}

// ReviewResume extracts text from an uploaded PDF and asks the LLM for
// structured feedback. Premium only; uploads above 5 MB are rejected before
// any provider call (the bound itself is inclusive).
func (s *GenerationService) ReviewResume(ctx context.Context, userID string, ent entitlement.Entitlement, resume *multipart.FileHeader) (string, error) {
	if ent.Plan != entitlement.PlanPremium {
		return "", ErrPremiumRequired
	}

	if resume.Size > MaxResumeSize {
		return "", ErrFileTooLarge
	}

	f, err := resume.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open resume: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("failed to read resume: %w", err)
	}

	text, err := s.parser.ExtractText(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	prompt := "Review the following resume and provide constructive feedback on its strengths, weaknesses, and areas for improvement. Resume Content:\n\n" + text

	content, err := s.llm.Generate(ctx, prompt, resumeReviewMaxTokens)
	if err != nil {
		return "", err
	}

	if err := s.store.Create(ctx, &models.Creation{
		UserID:  userID,
		Prompt:  "Review the uploaded resume",
		Content: content,
		Type:    models.CreationTypeResumeReview,
	}); err != nil {
		return "", err
	}

	return content, nil
}
