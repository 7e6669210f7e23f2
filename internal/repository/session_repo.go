package repository

import (
	"context"
	"errors"
	"time"

	"github.com/user/collection-service/internal/entity"
)

// ErrSessionNotFound covers unknown, expired, already-consumed and
// foreign-owner sessions alike. Callers must not be able to tell these apart.
var ErrSessionNotFound = errors.New("capture session not found")

// SessionRepository defines the interface for the capture session mailbox.
// A session is written once by the delivering agent and consumed at most once
// by the polling application tab; the consume must be atomic.
type SessionRepository interface {
	// Create stores the payload under sessionID with the given TTL.
	// The session is immediately ready for consumption.
	Create(ctx context.Context, sessionID string, payload *entity.CapturePayload, ttl time.Duration) error
	// Consume atomically retrieves and removes the payload. Only the owning
	// user's sessions resolve; everything else is ErrSessionNotFound.
	Consume(ctx context.Context, sessionID, userID string) (*entity.CapturePayload, error)
}
