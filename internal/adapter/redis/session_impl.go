package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/collection-service/internal/entity"
	"github.com/user/collection-service/internal/repository"
	"github.com/user/collection-service/pkg/utils"
)

const sessionKeyPrefix = "capture:session:"

// SessionRepoImpl provides a concrete implementation for the SessionRepository
// interface using Redis. Each session is a single key with a short TTL; the
// key embeds a digest of the owning user, so a retrieval with the wrong owner
// misses the key and is indistinguishable from an expired or unknown session.
type SessionRepoImpl struct {
	client *redis.Client
}

// NewSessionRepo creates a new instance of SessionRepoImpl.
func NewSessionRepo(client *redis.Client) *SessionRepoImpl {
	return &SessionRepoImpl{client: client}
}

// generateKey scopes the session key to its owner. The user digest keeps raw
// identifiers out of Redis keys.
func (r *SessionRepoImpl) generateKey(sessionID, userID string) string {
	return fmt.Sprintf("%s%s:%s", sessionKeyPrefix, utils.Fingerprint(userID)[:16], sessionID)
}

// Create stores the payload under sessionID with the given TTL. The session
// is ready the moment the key exists.
func (r *SessionRepoImpl) Create(ctx context.Context, sessionID string, payload *entity.CapturePayload, ttl time.Duration) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	key := r.generateKey(sessionID, payload.UserID)
	return r.client.Set(ctx, key, data, ttl).Err()
}

// Consume atomically retrieves and deletes the session payload. GETDEL makes
// the ready-to-consumed transition a single Redis command, so at most one of
// any number of racing pollers gets the payload.
func (r *SessionRepoImpl) Consume(ctx context.Context, sessionID, userID string) (*entity.CapturePayload, error) {
	key := r.generateKey(sessionID, userID)
	data, err := r.client.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrSessionNotFound
		}
		return nil, err
	}

	var payload entity.CapturePayload
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
