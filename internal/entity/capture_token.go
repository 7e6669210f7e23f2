package entity

import "time"

// CaptureToken mirrors the `capture_tokens` PostgreSQL table schema.
// There is at most one live token per user; re-issuing replaces the row and
// increments the generation counter, which revokes every prior token at once.
type CaptureToken struct {
	UserID     string
	Token      string
	Generation int64
	CreatedAt  time.Time
	ExpiresAt  time.Time
}
