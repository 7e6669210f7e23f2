package response

import (
	"time"

	"github.com/user/collection-service/internal/entity"
	"github.com/user/collection-service/internal/scrape"
)

type CaptureTokenResponse struct {
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SubmitCaptureResponse struct {
	SessionID string `json:"session_id"`
}

type CaptureResultResponse struct {
	Result *scrape.Result `json:"result"`
}

// DuplicateConflictResponse accompanies a 409: the caller either cancels or
// resubmits with force_add.
type DuplicateConflictResponse struct {
	DuplicateType string         `json:"duplicate_type"`
	Matches       []*entity.Item `json:"matches"`
	Candidate     *entity.Item   `json:"candidate"`
}

type ItemListResponse struct {
	Items []*entity.Item `json:"items"`
}

type CommunityRecordListResponse struct {
	Records []*entity.CommunityRecord `json:"records"`
}

type ImportCommunityRecordResponse struct {
	Record map[string]any `json:"record"`
}
