package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/user/collection-service/internal/entity"
	"github.com/user/collection-service/internal/merge"
	"github.com/user/collection-service/internal/repository"
	"github.com/user/collection-service/pkg/utils"
)

// ErrRecordNotFound is returned when an import targets a missing record.
var ErrRecordNotFound = repository.ErrRecordNotFound

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// CommunityManager exposes community records and the merge-on-import path.
type CommunityManager interface {
	Search(ctx context.Context, query string, limit, offset int) ([]*entity.CommunityRecord, error)
	// Import merges the target record into the caller's editing session:
	// manual fields stay untouched, the community record fills what manual
	// entry left empty, and the scrape result fills the rest. The record
	// itself is only read.
	Import(ctx context.Context, targetID string, manual, scraped merge.FieldValues) (merge.FieldValues, error)
}

type communityUseCase struct {
	communityRepo repository.CommunityRepository
}

// NewCommunityManager creates a new CommunityManager use case.
func NewCommunityManager(communityRepo repository.CommunityRepository) CommunityManager {
	return &communityUseCase{communityRepo: communityRepo}
}

func (uc *communityUseCase) Search(ctx context.Context, query string, limit, offset int) ([]*entity.CommunityRecord, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	if offset < 0 {
		offset = 0
	}
	// Pasting a product URL searches by its domain.
	if strings.Contains(query, "://") {
		if domain := utils.NormalizeDomain(query); domain != "" {
			query = domain
		}
	}
	return uc.communityRepo.Search(ctx, query, limit, offset)
}

func (uc *communityUseCase) Import(ctx context.Context, targetID string, manual, scraped merge.FieldValues) (merge.FieldValues, error) {
	record, err := uc.communityRepo.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load community record %s: %w", targetID, err)
	}

	merged := merge.Apply(merge.Sources{
		Manual:    manual,
		Community: record.Fields,
		Scraped:   scraped,
	})
	slog.Info("Community record imported",
		"record_id", record.ID,
		"domain", record.Domain,
		"merged_fields", len(merged),
	)
	return merged, nil
}
