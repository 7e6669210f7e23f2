package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/collection-service/internal/entity"
	"github.com/user/collection-service/internal/repository"
)

// TokenRepoImpl provides a concrete implementation for the TokenRepository interface using PostgreSQL.
type TokenRepoImpl struct {
	db *pgxpool.Pool
}

// NewTokenRepo creates a new instance of TokenRepoImpl.
func NewTokenRepo(db *pgxpool.Pool) *TokenRepoImpl {
	return &TokenRepoImpl{db: db}
}

// Rotate upserts the user's token row. The upsert keeps exactly one live
// token per user and bumps the generation atomically, so every previously
// issued token string stops resolving in the same statement.
func (r *TokenRepoImpl) Rotate(ctx context.Context, token *entity.CaptureToken) (int64, error) {
	query := `
		INSERT INTO capture_tokens (user_id, token, generation, created_at, expires_at)
		VALUES ($1, $2, 1, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			token = EXCLUDED.token,
			generation = capture_tokens.generation + 1,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at
		RETURNING generation;
	`
	var generation int64
	err := r.db.QueryRow(ctx, query,
		token.UserID,
		token.Token,
		token.CreatedAt,
		token.ExpiresAt,
	).Scan(&generation)
	if err != nil {
		return 0, err
	}
	return generation, nil
}

// FindByToken retrieves the live token row matching the opaque string.
func (r *TokenRepoImpl) FindByToken(ctx context.Context, token string) (*entity.CaptureToken, error) {
	query := `
		SELECT user_id, token, generation, created_at, expires_at
		FROM capture_tokens
		WHERE token = $1;
	`
	row := r.db.QueryRow(ctx, query, token)

	var t entity.CaptureToken
	err := row.Scan(
		&t.UserID,
		&t.Token,
		&t.Generation,
		&t.CreatedAt,
		&t.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrTokenNotFound
		}
		return nil, err
	}
	return &t, nil
}
