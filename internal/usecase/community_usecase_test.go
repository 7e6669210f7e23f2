package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/collection-service/internal/entity"
	"github.com/user/collection-service/internal/merge"
)

func newCommunityFixture() (*fakeCommunityRepo, CommunityManager) {
	repo := &fakeCommunityRepo{
		records: map[string]*entity.CommunityRecord{
			"rec-1": {
				ID:     "rec-1",
				Domain: "store.example",
				Fields: map[string]any{
					"name":               "Wireless Mouse",
					"brand":              "Logi",
					"return_window_days": 30,
				},
			},
		},
	}
	return repo, NewCommunityManager(repo)
}

func TestCommunityManager_ImportFillsOnlyMissingFields(t *testing.T) {
	_, uc := newCommunityFixture()

	merged, err := uc.Import(context.Background(), "rec-1",
		merge.FieldValues{"name": "My Mouse"},
		merge.FieldValues{"brand": "Logitech", "price": 29.99},
	)
	require.NoError(t, err)

	// The manual value survives the import untouched.
	assert.Equal(t, "My Mouse", merged["name"])
	// Community fills what manual entry left empty, ahead of scraped data.
	assert.Equal(t, "Logi", merged["brand"])
	assert.Equal(t, 30, merged["return_window_days"])
	// Scraped data fills the rest.
	assert.Equal(t, 29.99, merged["price"])
}

func TestCommunityManager_ImportUnknownRecord(t *testing.T) {
	_, uc := newCommunityFixture()

	_, err := uc.Import(context.Background(), "rec-missing", nil, nil)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestCommunityManager_SearchClampsLimit(t *testing.T) {
	repo, uc := newCommunityFixture()
	ctx := context.Background()

	_, err := uc.Search(ctx, "mouse", 0, -5)
	require.NoError(t, err)
	assert.Equal(t, defaultSearchLimit, repo.lastLimit)
	assert.Equal(t, 0, repo.lastOffset)

	_, err = uc.Search(ctx, "mouse", 5000, 10)
	require.NoError(t, err)
	assert.Equal(t, maxSearchLimit, repo.lastLimit)
	assert.Equal(t, 10, repo.lastOffset)
}

func TestCommunityManager_SearchReducesURLToDomain(t *testing.T) {
	repo, uc := newCommunityFixture()

	_, err := uc.Search(context.Background(), "https://www.store.example/p/123?ref=x", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, "store.example", repo.lastQuery)
}
