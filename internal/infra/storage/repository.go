package storage

import (
	"context"
	"errors"

	"github.com/vietddude/fhirgate/internal/core/domain"
)

var (
	// ErrRecordNotFound is returned when a routing record doesn't exist
	ErrRecordNotFound = errors.New("routing record not found")
)

// RecordRepository persists the audit trail of terminal routings.
type RecordRepository interface {
	// Save stores a routing record. Saving the same document identifier
	// again overwrites the previous record (idempotent re-write).
	Save(ctx context.Context, record *domain.RoutingRecord) error

	// GetByDocument retrieves the record for a document identifier.
	GetByDocument(ctx context.Context, documentID string) (*domain.RoutingRecord, error)

	// List returns the most recent records, newest first.
	List(ctx context.Context, limit int) ([]*domain.RoutingRecord, error)

	// CountByDestination returns how many documents reached a sink.
	CountByDestination(ctx context.Context, dest domain.Destination) (int, error)

	// Delete removes the record for a document identifier.
	Delete(ctx context.Context, documentID string) error
}

// AttemptRepository persists the failure journal.
type AttemptRepository interface {
	// Add records a failed processing attempt.
	Add(ctx context.Context, attempt *domain.FailedAttempt) error

	// MarkResolved resolves all pending attempts for a document.
	MarkResolved(ctx context.Context, documentID string) error

	// ListPending returns attempts that have not been resolved.
	ListPending(ctx context.Context) ([]*domain.FailedAttempt, error)

	// CountPending returns the number of unresolved attempts.
	CountPending(ctx context.Context) (int, error)
}
