package repository

import (
	"context"
	"errors"

	"github.com/user/collection-service/internal/entity"
)

// ErrTokenNotFound means no live token matches the given string; stale
// generations and unknown strings look identical.
var ErrTokenNotFound = errors.New("capture token not found")

// TokenRepository defines the interface for storing and validating capture tokens.
type TokenRepository interface {
	// Rotate stores a fresh token for the owning user, replacing any prior
	// one and incrementing the user's generation counter. Returns the new
	// generation. Tokens from earlier generations stop resolving entirely.
	Rotate(ctx context.Context, token *entity.CaptureToken) (int64, error)
	// FindByToken resolves the live token matching the opaque string.
	// Stale-generation tokens no longer exist and surface as not found.
	FindByToken(ctx context.Context, token string) (*entity.CaptureToken, error)
}
