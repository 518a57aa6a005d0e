package services_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/inklore/inklore-backend/internal/models"
	"github.com/inklore/inklore-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func likesOf(t *testing.T, creation *models.Creation) []string {
	t.Helper()
	var likes []string
	require.NoError(t, json.Unmarshal(creation.Likes, &likes))
	return likes
}

func TestToggleLikeAdds(t *testing.T) {
	store := &fakeStore{byID: &models.Creation{
		ID:    uuid.New(),
		Likes: datatypes.JSON(`["user_other"]`),
	}}
	svc := services.NewCreationService(store)

	message, err := svc.ToggleLike(context.Background(), "user_1", store.byID.ID)
	require.NoError(t, err)
	assert.Equal(t, "Creation Liked", message)

	require.Len(t, store.saved, 1)
	assert.Equal(t, []string{"user_other", "user_1"}, likesOf(t, store.saved[0]))
}

func TestToggleLikeRemoves(t *testing.T) {
	store := &fakeStore{byID: &models.Creation{
		ID:    uuid.New(),
		Likes: datatypes.JSON(`["user_other","user_1"]`),
	}}
	svc := services.NewCreationService(store)

	message, err := svc.ToggleLike(context.Background(), "user_1", store.byID.ID)
	require.NoError(t, err)
	assert.Equal(t, "Creation Unliked", message)

	require.Len(t, store.saved, 1)
	assert.Equal(t, []string{"user_other"}, likesOf(t, store.saved[0]))
}

func TestToggleLikeEmptyLikes(t *testing.T) {
	store := &fakeStore{byID: &models.Creation{ID: uuid.New()}}
	svc := services.NewCreationService(store)

	message, err := svc.ToggleLike(context.Background(), "user_1", store.byID.ID)
	require.NoError(t, err)
	assert.Equal(t, "Creation Liked", message)
	assert.Equal(t, []string{"user_1"}, likesOf(t, store.saved[0]))
}

func TestToggleLikeNotFound(t *testing.T) {
	store := &fakeStore{getErr: services.ErrCreationNotFound}
	svc := services.NewCreationService(store)

	_, err := svc.ToggleLike(context.Background(), "user_1", uuid.New())
	assert.ErrorIs(t, err, services.ErrCreationNotFound)
	assert.Empty(t, store.saved)
}
