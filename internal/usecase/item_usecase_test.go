package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/collection-service/internal/dedupe"
	"github.com/user/collection-service/internal/entity"
)

func TestItemManager_AddAndList(t *testing.T) {
	uc := NewItemManager(&fakeItemRepo{})
	ctx := context.Background()

	saved, err := uc.Add(ctx, &entity.Item{
		UserID: "user-1",
		Name:   "Wireless Mouse",
		Brand:  "Logi",
		URL:    "https://store.example/p/123",
		Price:  29.99,
	}, false)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	items, err := uc.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, saved.ID, items[0].ID)
}

func TestItemManager_ExactDuplicateBlocks(t *testing.T) {
	uc := NewItemManager(&fakeItemRepo{})
	ctx := context.Background()

	_, err := uc.Add(ctx, &entity.Item{
		UserID: "user-1", Name: "Wireless Mouse", URL: "https://store.example/p/123",
	}, false)
	require.NoError(t, err)

	_, err = uc.Add(ctx, &entity.Item{
		UserID: "user-1", Name: "Renamed", URL: "https://store.example/p/123?utm=abc",
	}, false)

	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, dedupe.MatchExact, dup.Report.Type)
	require.Len(t, dup.Report.Matches, 1)

	items, err := uc.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, items, 1, "a blocked insertion must not persist anything")
}

func TestItemManager_SimilarDuplicateBlocksUntilForced(t *testing.T) {
	uc := NewItemManager(&fakeItemRepo{})
	ctx := context.Background()

	_, err := uc.Add(ctx, &entity.Item{
		UserID: "user-1", Name: "Wireless Mouse", Brand: "Logi", Price: 29.5,
		URL: "https://store.example/p/1",
	}, false)
	require.NoError(t, err)

	candidate := &entity.Item{
		UserID: "user-1", Name: "Wireless Mouse", Brand: "Logi", Price: 29.99,
		URL: "https://other.example/p/9",
	}
	_, err = uc.Add(ctx, candidate, false)
	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, dedupe.MatchSimilar, dup.Report.Type)

	// The user confirms; force_add bypasses the check for this submission.
	saved, err := uc.Add(ctx, candidate, true)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)

	items, err := uc.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestItemManager_DuplicateCheckScopedToUser(t *testing.T) {
	uc := NewItemManager(&fakeItemRepo{})
	ctx := context.Background()

	_, err := uc.Add(ctx, &entity.Item{
		UserID: "user-1", Name: "Wireless Mouse", URL: "https://store.example/p/123",
	}, false)
	require.NoError(t, err)

	// Another user adding the same URL is not a duplicate.
	_, err = uc.Add(ctx, &entity.Item{
		UserID: "user-2", Name: "Wireless Mouse", URL: "https://store.example/p/123",
	}, false)
	require.NoError(t, err)
}

func TestItemManager_NameRequired(t *testing.T) {
	uc := NewItemManager(&fakeItemRepo{})

	_, err := uc.Add(context.Background(), &entity.Item{UserID: "user-1", Name: "   "}, false)
	assert.ErrorIs(t, err, ErrItemNameRequired)
}
