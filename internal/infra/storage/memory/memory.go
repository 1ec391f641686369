package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vietddude/fhirgate/internal/core/domain"
	"github.com/vietddude/fhirgate/internal/infra/storage"
)

// MemoryStorage backs the repositories when no database is configured.
type MemoryStorage struct {
	records  map[string]*domain.RoutingRecord
	attempts []*domain.FailedAttempt
	mu       sync.RWMutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records: make(map[string]*domain.RoutingRecord),
	}
}

// -----------------------------------------------------------------------------
// Routing Record Repository
// -----------------------------------------------------------------------------

type RecordRepo struct {
	store *MemoryStorage
}

func NewRecordRepo(store *MemoryStorage) *RecordRepo {
	return &RecordRepo{store: store}
}

func (r *RecordRepo) Save(ctx context.Context, record *domain.RoutingRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	saved := *record
	if saved.RoutedAt.IsZero() {
		saved.RoutedAt = time.Now()
	}
	r.store.records[record.DocumentID] = &saved
	return nil
}

func (r *RecordRepo) GetByDocument(ctx context.Context, documentID string) (*domain.RoutingRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	record, ok := r.store.records[documentID]
	if !ok {
		return nil, storage.ErrRecordNotFound
	}
	copied := *record
	return &copied, nil
}

func (r *RecordRepo) List(ctx context.Context, limit int) ([]*domain.RoutingRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	records := make([]*domain.RoutingRecord, 0, len(r.store.records))
	for _, rec := range r.store.records {
		copied := *rec
		records = append(records, &copied)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].RoutedAt.After(records[j].RoutedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (r *RecordRepo) CountByDestination(ctx context.Context, dest domain.Destination) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	count := 0
	for _, rec := range r.store.records {
		if rec.Destination == dest {
			count++
		}
	}
	return count, nil
}

func (r *RecordRepo) Delete(ctx context.Context, documentID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.records, documentID)
	return nil
}

// -----------------------------------------------------------------------------
// Failure Journal Repository
// -----------------------------------------------------------------------------

type AttemptRepo struct {
	store *MemoryStorage
}

func NewAttemptRepo(store *MemoryStorage) *AttemptRepo {
	return &AttemptRepo{store: store}
}

func (r *AttemptRepo) Add(ctx context.Context, attempt *domain.FailedAttempt) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	saved := *attempt
	if saved.Status == "" {
		saved.Status = domain.AttemptStatusPending
	}
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = time.Now()
	}
	r.store.attempts = append(r.store.attempts, &saved)
	return nil
}

func (r *AttemptRepo) MarkResolved(ctx context.Context, documentID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, a := range r.store.attempts {
		if a.DocumentID == documentID && a.Status == domain.AttemptStatusPending {
			a.Status = domain.AttemptStatusResolved
		}
	}
	return nil
}

func (r *AttemptRepo) ListPending(ctx context.Context) ([]*domain.FailedAttempt, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var pending []*domain.FailedAttempt
	for _, a := range r.store.attempts {
		if a.Status == domain.AttemptStatusPending {
			copied := *a
			pending = append(pending, &copied)
		}
	}
	return pending, nil
}

func (r *AttemptRepo) CountPending(ctx context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	count := 0
	for _, a := range r.store.attempts {
		if a.Status == domain.AttemptStatusPending {
			count++
		}
	}
	return count, nil
}
