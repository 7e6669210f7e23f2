package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/user/collection-service/internal/dedupe"
	"github.com/user/collection-service/internal/entity"
	"github.com/user/collection-service/internal/repository"
	"github.com/user/collection-service/pkg/metrics"
)

var ErrItemNameRequired = errors.New("item name is required")

// DuplicateError blocks an insertion pending an explicit user decision.
// Resubmitting with forceAdd bypasses the check once for that submission.
type DuplicateError struct {
	Report    dedupe.Report
	Candidate *entity.Item
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("candidate duplicates %d existing item(s) (%s)", len(e.Report.Matches), e.Report.Type)
}

// ItemManager defines the interface for adding and listing collection items.
type ItemManager interface {
	// Add runs the duplicate check and inserts the item. A duplicate
	// classification surfaces as *DuplicateError unless forceAdd is set.
	Add(ctx context.Context, item *entity.Item, forceAdd bool) (*entity.Item, error)
	List(ctx context.Context, userID string) ([]*entity.Item, error)
}

type itemUseCase struct {
	itemRepo repository.ItemRepository
	now      func() time.Time
}

// NewItemManager creates a new ItemManager use case.
func NewItemManager(itemRepo repository.ItemRepository) ItemManager {
	return &itemUseCase{
		itemRepo: itemRepo,
		now:      time.Now,
	}
}

func (uc *itemUseCase) Add(ctx context.Context, item *entity.Item, forceAdd bool) (*entity.Item, error) {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return nil, ErrItemNameRequired
	}
	if item.UserID == "" {
		return nil, errors.New("user id is required")
	}

	existing, err := uc.itemRepo.ListByUser(ctx, item.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items for duplicate check: %w", err)
	}

	report := dedupe.Check(item, existing)
	metrics.DuplicateChecksTotal.WithLabelValues(string(report.Type)).Inc()
	if report.Type != dedupe.MatchNone && !forceAdd {
		slog.Info("Item insertion blocked by duplicate check",
			"user_id", item.UserID,
			"duplicate_type", report.Type,
			"matches", len(report.Matches),
		)
		return nil, &DuplicateError{Report: report, Candidate: item}
	}

	item.ID = uuid.NewString()
	item.CreatedAt = uc.now()
	if err := uc.itemRepo.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to save item: %w", err)
	}

	slog.Info("Item added", "item_id", item.ID, "user_id", item.UserID, "forced", forceAdd && report.Type != dedupe.MatchNone)
	return item, nil
}

func (uc *itemUseCase) List(ctx context.Context, userID string) ([]*entity.Item, error) {
	return uc.itemRepo.ListByUser(ctx, userID)
}
