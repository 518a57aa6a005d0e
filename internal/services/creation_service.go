package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/inklore/inklore-backend/internal/models"
	"gorm.io/datatypes"
)

// CreationService serves creation history and the community feed.
type CreationService struct {
	store CreationStore
}

func NewCreationService(store CreationStore) *CreationService {
	return &CreationService{store: store}
}

func (s *CreationService) GetUserCreations(ctx context.Context, userID string) ([]models.Creation, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *CreationService) GetPublishedCreations(ctx context.Context) ([]models.Creation, error) {
	return s.store.ListPublished(ctx)
}

// ToggleLike flips the caller's like on a published creation and returns a
// user-facing message.
func (s *CreationService) ToggleLike(ctx context.Context, userID string, creationID uuid.UUID) (string, error) {
	creation, err := s.store.GetByID(ctx, creationID)
	if err != nil {
		return "", err
	}

	var likes []string
	if len(creation.Likes) > 0 {
		if err := json.Unmarshal(creation.Likes, &likes); err != nil {
			return "", fmt.Errorf("failed to decode likes: %w", err)
		}
	}

	message := "Creation Liked"
	updated := make([]string, 0, len(likes)+1)
	found := false
	for _, id := range likes {
		if id == userID {
			found = true
			continue
		}
		updated = append(updated, id)
	}
	if found {
		message = "Creation Unliked"
	} else {
		updated = append(updated, userID)
	}

	b, err := json.Marshal(updated)
	if err != nil {
		return "", fmt.Errorf("failed to encode likes: %w", err)
	}
	creation.Likes = datatypes.JSON(b)

	if err := s.store.Save(ctx, creation); err != nil {
		return "", err
	}

	return message, nil
}
