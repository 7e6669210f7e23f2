package repository

import (
	"context"
	"errors"

	"github.com/user/collection-service/internal/entity"
)

// ErrRecordNotFound means no community record exists with the given ID.
var ErrRecordNotFound = errors.New("community record not found")

// CommunityRepository defines the read-side interface for community-contributed
// records. The merge engine never mutates these.
type CommunityRepository interface {
	// Search retrieves records whose domain matches the query.
	Search(ctx context.Context, query string, limit, offset int) ([]*entity.CommunityRecord, error)
	// FindByID retrieves a single record.
	FindByID(ctx context.Context, id string) (*entity.CommunityRecord, error)
}
