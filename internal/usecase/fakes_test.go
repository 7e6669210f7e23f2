package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/user/collection-service/internal/entity"
	"github.com/user/collection-service/internal/repository"
)

// fakeTokenRepo mimics the one-live-row-per-user upsert of the postgres
// implementation.
type fakeTokenRepo struct {
	mu          sync.Mutex
	byToken     map[string]*entity.CaptureToken
	generations map[string]int64
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{
		byToken:     make(map[string]*entity.CaptureToken),
		generations: make(map[string]int64),
	}
}

func (f *fakeTokenRepo) Rotate(_ context.Context, token *entity.CaptureToken) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for s, t := range f.byToken {
		if t.UserID == token.UserID {
			delete(f.byToken, s)
		}
	}
	f.generations[token.UserID]++
	stored := *token
	stored.Generation = f.generations[token.UserID]
	f.byToken[token.Token] = &stored
	return stored.Generation, nil
}

func (f *fakeTokenRepo) FindByToken(_ context.Context, token string) (*entity.CaptureToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byToken[token]
	if !ok {
		return nil, repository.ErrTokenNotFound
	}
	found := *t
	return &found, nil
}

// fakeSessionRepo mimics the owner-scoped, consume-once mailbox semantics of
// the redis implementation.
type fakeSessionRepo struct {
	mu   sync.Mutex
	data map[string]*entity.CapturePayload
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{data: make(map[string]*entity.CapturePayload)}
}

func (f *fakeSessionRepo) Create(_ context.Context, sessionID string, payload *entity.CapturePayload, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[payload.UserID+":"+sessionID] = payload
	return nil
}

func (f *fakeSessionRepo) Consume(_ context.Context, sessionID, userID string) (*entity.CapturePayload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := userID + ":" + sessionID
	payload, ok := f.data[key]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	delete(f.data, key)
	return payload, nil
}

// fakeItemRepo is an append-only in-memory item store.
type fakeItemRepo struct {
	mu    sync.Mutex
	items []*entity.Item
}

func (f *fakeItemRepo) Save(_ context.Context, item *entity.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	saved := *item
	f.items = append(f.items, &saved)
	return nil
}

func (f *fakeItemRepo) ListByUser(_ context.Context, userID string) ([]*entity.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []*entity.Item
	for _, item := range f.items {
		if item.UserID == userID {
			items = append(items, item)
		}
	}
	return items, nil
}

// fakeCommunityRepo holds a fixed set of records and records the paging
// arguments it was called with.
type fakeCommunityRepo struct {
	records    map[string]*entity.CommunityRecord
	lastQuery  string
	lastLimit  int
	lastOffset int
}

func (f *fakeCommunityRepo) Search(_ context.Context, query string, limit, offset int) ([]*entity.CommunityRecord, error) {
	f.lastQuery = query
	f.lastLimit = limit
	f.lastOffset = offset
	var records []*entity.CommunityRecord
	for _, r := range f.records {
		records = append(records, r)
	}
	return records, nil
}

func (f *fakeCommunityRepo) FindByID(_ context.Context, id string) (*entity.CommunityRecord, error) {
	r, ok := f.records[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return r, nil
}
