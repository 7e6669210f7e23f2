package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/user/collection-service/internal/entity"
	"github.com/user/collection-service/internal/repository"
	"github.com/user/collection-service/pkg/metrics"
	"github.com/user/collection-service/pkg/utils"
)

// ErrInvalidToken covers malformed, stale-generation and expired tokens.
// The caller cannot tell these apart; the fix is always to regenerate.
var ErrInvalidToken = errors.New("capture token is invalid or expired")

// 128 bits of entropy, hex-encoded to 32 characters.
const tokenBytes = 16

// TokenManager issues and validates scope-limited capture tokens.
type TokenManager interface {
	// Issue mints a fresh token for the user. Issuing is also the only
	// revocation mechanism: it invalidates every previously issued token.
	Issue(ctx context.Context, userID string) (*entity.CaptureToken, error)
	// Validate resolves a token string to its owning user.
	Validate(ctx context.Context, token string) (string, error)
}

type tokenUseCase struct {
	tokenRepo repository.TokenRepository
	ttl       time.Duration
	now       func() time.Time
}

// NewTokenManager creates a new TokenManager use case.
func NewTokenManager(tokenRepo repository.TokenRepository, ttl time.Duration) TokenManager {
	return &tokenUseCase{
		tokenRepo: tokenRepo,
		ttl:       ttl,
		now:       time.Now,
	}
}

func (uc *tokenUseCase) Issue(ctx context.Context, userID string) (*entity.CaptureToken, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}

	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate capture token: %w", err)
	}

	now := uc.now()
	token := &entity.CaptureToken{
		UserID:    userID,
		Token:     hex.EncodeToString(buf),
		CreatedAt: now,
		ExpiresAt: now.Add(uc.ttl),
	}

	generation, err := uc.tokenRepo.Rotate(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to store capture token: %w", err)
	}
	token.Generation = generation

	metrics.TokensIssuedTotal.Inc()
	slog.Info("Capture token issued",
		"user_id", userID,
		"generation", generation,
		"token_digest", utils.Fingerprint(token.Token)[:12],
	)
	return token, nil
}

func (uc *tokenUseCase) Validate(ctx context.Context, token string) (string, error) {
	if len(token) != tokenBytes*2 {
		return "", ErrInvalidToken
	}
	if _, err := hex.DecodeString(token); err != nil {
		return "", ErrInvalidToken
	}

	stored, err := uc.tokenRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("failed to look up capture token: %w", err)
	}
	if !uc.now().Before(stored.ExpiresAt) {
		return "", ErrInvalidToken
	}
	return stored.UserID, nil
}
