package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/inklore/inklore-backend/internal/models"
	"gorm.io/gorm"
)

var ErrCreationNotFound = errors.New("creation not found")

// CreationStore persists creation records. Injected so services can be
// tested against a fake.
type CreationStore interface {
	Create(ctx context.Context, creation *models.Creation) error
	ListByUser(ctx context.Context, userID string) ([]models.Creation, error)
	ListPublished(ctx context.Context) ([]models.Creation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Creation, error)
	Save(ctx context.Context, creation *models.Creation) error
}

type gormCreationStore struct {
	db *gorm.DB
}

func NewCreationStore(db *gorm.DB) CreationStore {
	return &gormCreationStore{db: db}
}

func (s *gormCreationStore) Create(ctx context.Context, creation *models.Creation) error {
	if err := s.db.WithContext(ctx).Create(creation).Error; err != nil {
		return fmt.Errorf("failed to create creation: %w", err)
	}
	return nil
}

func (s *gormCreationStore) ListByUser(ctx context.Context, userID string) ([]models.Creation, error) {
	var creations []models.Creation
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&creations).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch creations: %w", err)
	}
	return creations, nil
}

func (s *gormCreationStore) ListPublished(ctx context.Context) ([]models.Creation, error) {
	var creations []models.Creation
	if err := s.db.WithContext(ctx).
		Where("publish = ?", true).
		Order("created_at DESC").
		Find(&creations).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch published creations: %w", err)
	}
	return creations, nil
}

func (s *gormCreationStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Creation, error) {
	var creation models.Creation
	if err := s.db.WithContext(ctx).First(&creation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCreationNotFound
		}
		return nil, fmt.Errorf("failed to fetch creation: %w", err)
	}
	return &creation, nil
}

func (s *gormCreationStore) Save(ctx context.Context, creation *models.Creation) error {
	if err := s.db.WithContext(ctx).Save(creation).Error; err != nil {
		return fmt.Errorf("failed to save creation: %w", err)
	}
	return nil
}
