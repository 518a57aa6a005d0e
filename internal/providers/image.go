package providers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/inklore/inklore-backend/internal/config"
)

// ImageClient calls the image-processing API. Every call returns raw image
// bytes; durable URLs come from uploading those bytes to object storage.
type ImageClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewImageClient(cfg *config.Config) *ImageClient {
	timeout := cfg.AITimeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &ImageClient{
		baseURL: cfg.ClipDropAPIURL,
		apiKey:  cfg.ClipDropAPIKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// GenerateImage synthesizes an image from a text prompt.
func (c *ImageClient) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	return c.post(ctx, "/text-to-image/v1", map[string]string{"prompt": prompt}, "", "", nil)
}

// RemoveBackground erases the background of an uploaded image.
func (c *ImageClient) RemoveBackground(ctx context.Context, image io.Reader, filename string) ([]byte, error) {
	return c.post(ctx, "/remove-background/v1", nil, "image_file", filename, image)
}

// RemoveObject erases the named object from an uploaded image.
func (c *ImageClient) RemoveObject(ctx context.Context, image io.Reader, filename, object string) ([]byte, error) {
	return c.post(ctx, "/remove-object/v1", map[string]string{"object": object}, "image_file", filename, image)
}

func (c *ImageClient) post(ctx context.Context, path string, fields map[string]string, fileField, filename string, file io.Reader) ([]byte, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("image API key not configured")
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	for key, val := range fields {
		if err := form.WriteField(key, val); err != nil {
			return nil, err
		}
	}
	if file != nil {
		part, err := form.CreateFormFile(fileField, filename)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, file); err != nil {
			return nil, fmt.Errorf("failed to read image: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image API returned %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}
