package repository

import (
	"context"

	"github.com/user/collection-service/internal/entity"
)

// ItemRepository defines the interface for storing and listing collection items.
type ItemRepository interface {
	// Save inserts a new item.
	Save(ctx context.Context, item *entity.Item) error
	// ListByUser retrieves every item owned by the user, newest first.
	ListByUser(ctx context.Context, userID string) ([]*entity.Item, error)
}
