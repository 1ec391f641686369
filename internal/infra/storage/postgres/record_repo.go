package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vietddude/fhirgate/internal/core/domain"
	"github.com/vietddude/fhirgate/internal/infra/storage"
)

// RecordRepo implements storage.RecordRepository using PostgreSQL.
type RecordRepo struct {
	db *DB
}

// NewRecordRepo creates a new PostgreSQL routing record repository.
func NewRecordRepo(db *DB) *RecordRepo {
	return &RecordRepo{db: db}
}

// Save stores a routing record, overwriting a prior record for the same
// document so crash-retry re-writes stay idempotent.
func (r *RecordRepo) Save(ctx context.Context, record *domain.RoutingRecord) error {
	query := `
		INSERT INTO routing_records (document_id, destination, passed, error_count, warning_count, summary, routed_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (document_id) DO UPDATE SET
			destination = EXCLUDED.destination,
			passed = EXCLUDED.passed,
			error_count = EXCLUDED.error_count,
			warning_count = EXCLUDED.warning_count,
			summary = EXCLUDED.summary,
			routed_at = EXCLUDED.routed_at
	`
	_, err := r.db.ExecContext(
		ctx,
		query,
		record.DocumentID,
		string(record.Destination),
		record.Passed,
		record.ErrorCount,
		record.WarningCount,
		record.Summary,
	)
	if err != nil {
		return fmt.Errorf("failed to save routing record: %w", err)
	}
	return nil
}

// GetByDocument retrieves the record for a document identifier.
func (r *RecordRepo) GetByDocument(ctx context.Context, documentID string) (*domain.RoutingRecord, error) {
	query := `
		SELECT document_id, destination, passed, error_count, warning_count, summary, routed_at
		FROM routing_records
		WHERE document_id = $1
	`
	var record domain.RoutingRecord
	err := r.db.GetContext(ctx, &record, query, documentID)
	if err == sql.ErrNoRows {
		return nil, storage.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get routing record: %w", err)
	}
	return &record, nil
}

// List returns the most recent records, newest first.
func (r *RecordRepo) List(ctx context.Context, limit int) ([]*domain.RoutingRecord, error) {
	query := `
		SELECT document_id, destination, passed, error_count, warning_count, summary, routed_at
		FROM routing_records
		ORDER BY routed_at DESC
		LIMIT $1
	`
	var records []*domain.RoutingRecord
	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list routing records: %w", err)
	}
	return records, nil
}

// CountByDestination returns how many documents reached a sink.
func (r *RecordRepo) CountByDestination(ctx context.Context, dest domain.Destination) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM routing_records WHERE destination = $1`
	if err := r.db.GetContext(ctx, &count, query, string(dest)); err != nil {
		return 0, fmt.Errorf("failed to count routing records: %w", err)
	}
	return count, nil
}

// Delete removes the record for a document identifier.
func (r *RecordRepo) Delete(ctx context.Context, documentID string) error {
	query := `DELETE FROM routing_records WHERE document_id = $1`
	if _, err := r.db.ExecContext(ctx, query, documentID); err != nil {
		return fmt.Errorf("failed to delete routing record: %w", err)
	}
	return nil
}
