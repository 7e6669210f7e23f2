package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_IssueAndValidate(t *testing.T) {
	uc := NewTokenManager(newFakeTokenRepo(), 90*24*time.Hour)
	ctx := context.Background()

	token, err := uc.Issue(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, token.Token, 32, "128 bits of entropy, hex encoded")
	assert.Equal(t, int64(1), token.Generation)
	assert.Equal(t, token.CreatedAt.Add(90*24*time.Hour), token.ExpiresAt)

	userID, err := uc.Validate(ctx, token.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestTokenManager_ReissueInvalidatesPriorGeneration(t *testing.T) {
	uc := NewTokenManager(newFakeTokenRepo(), 90*24*time.Hour)
	ctx := context.Background()

	first, err := uc.Issue(ctx, "user-1")
	require.NoError(t, err)

	second, err := uc.Issue(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, first.Generation+1, second.Generation, "generation strictly increments")
	assert.NotEqual(t, first.Token, second.Token)

	_, err = uc.Validate(ctx, first.Token)
	assert.ErrorIs(t, err, ErrInvalidToken, "prior generation is revoked immediately")

	userID, err := uc.Validate(ctx, second.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestTokenManager_ValidateRejectsMalformed(t *testing.T) {
	uc := NewTokenManager(newFakeTokenRepo(), time.Hour)
	ctx := context.Background()

	for _, token := range []string{"", "short", "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz"} {
		_, err := uc.Validate(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}

func TestTokenManager_ValidateRejectsUnknown(t *testing.T) {
	uc := NewTokenManager(newFakeTokenRepo(), time.Hour)

	_, err := uc.Validate(context.Background(), "00112233445566778899aabbccddeeff")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_ValidateRejectsExpired(t *testing.T) {
	uc := NewTokenManager(newFakeTokenRepo(), time.Hour).(*tokenUseCase)
	ctx := context.Background()

	issuedAt := time.Now()
	uc.now = func() time.Time { return issuedAt }
	token, err := uc.Issue(ctx, "user-1")
	require.NoError(t, err)

	// Still valid one second before expiry.
	uc.now = func() time.Time { return issuedAt.Add(time.Hour - time.Second) }
	_, err = uc.Validate(ctx, token.Token)
	require.NoError(t, err)

	// Invalid exactly at expiry.
	uc.now = func() time.Time { return issuedAt.Add(time.Hour) }
	_, err = uc.Validate(ctx, token.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_IssueRequiresUser(t *testing.T) {
	uc := NewTokenManager(newFakeTokenRepo(), time.Hour)

	_, err := uc.Issue(context.Background(), "")
	assert.Error(t, err)
}
