package entity

import "time"

// CommunityRecord mirrors the `community_records` PostgreSQL table schema.
// Fields carries the same shape as a final merged record (stored as JSONB).
// The merge engine only ever reads these records.
type CommunityRecord struct {
	ID                string         `json:"id"`
	Domain            string         `json:"domain"`
	Fields            map[string]any `json:"fields"`
	VerificationCount int            `json:"verification_count"`
	ReportCount       int            `json:"report_count"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}
