package dto

import "github.com/inklore/inklore-backend/internal/models"

type GenerateArticleRequest struct {
	Prompt string `json:"prompt"`
	Length int    `json:"length"`
}

type GenerateBlogTitleRequest struct {
	Prompt string `json:"prompt"`
}

type GenerateImageRequest struct {
	Prompt  string `json:"prompt"`
	Publish bool   `json:"publish"`
}

type ToggleLikeRequest struct {
	ID string `json:"id"`
}

// GenerateResponse is the uniform envelope for every capability endpoint.
// Business failures (quota, tier, validation, provider errors) are reported
// here with a 200 status; only authentication failures use a transport status.
type GenerateResponse struct {
	Success bool   `json:"success"`
	Content string `json:"content,omitempty"`
	Message string `json:"message,omitempty"`
}

type CreationListResponse struct {
	Success   bool              `json:"success"`
	Creations []models.Creation `json:"creations"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
