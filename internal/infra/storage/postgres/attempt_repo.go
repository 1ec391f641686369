package postgres

import (
	"context"
	"fmt"

	"github.com/vietddude/fhirgate/internal/core/domain"
)

// AttemptRepo implements storage.AttemptRepository using PostgreSQL.
type AttemptRepo struct {
	db *DB
}

// NewAttemptRepo creates a new PostgreSQL failure journal repository.
func NewAttemptRepo(db *DB) *AttemptRepo {
	return &AttemptRepo{db: db}
}

// Add records a failed processing attempt.
func (r *AttemptRepo) Add(ctx context.Context, attempt *domain.FailedAttempt) error {
	query := `
		INSERT INTO failed_attempts (id, document_id, failure_type, error_msg, status, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	status := string(attempt.Status)
	if status == "" {
		status = string(domain.AttemptStatusPending)
	}
	_, err := r.db.ExecContext(
		ctx,
		query,
		attempt.ID,
		attempt.DocumentID,
		string(attempt.FailureType),
		attempt.Error,
		status,
	)
	if err != nil {
		return fmt.Errorf("failed to add attempt: %w", err)
	}
	return nil
}

// MarkResolved resolves all pending attempts for a document.
func (r *AttemptRepo) MarkResolved(ctx context.Context, documentID string) error {
	query := `
		UPDATE failed_attempts
		SET status = 'resolved'
		WHERE document_id = $1 AND status = 'pending'
	`
	if _, err := r.db.ExecContext(ctx, query, documentID); err != nil {
		return fmt.Errorf("failed to resolve attempts: %w", err)
	}
	return nil
}

// ListPending returns attempts that have not been resolved.
func (r *AttemptRepo) ListPending(ctx context.Context) ([]*domain.FailedAttempt, error) {
	query := `
		SELECT id, document_id, failure_type, error_msg, status, created_at
		FROM failed_attempts
		WHERE status = 'pending'
		ORDER BY created_at ASC
	`
	var attempts []*domain.FailedAttempt
	if err := r.db.SelectContext(ctx, &attempts, query); err != nil {
		return nil, fmt.Errorf("failed to list pending attempts: %w", err)
	}
	return attempts, nil
}

// CountPending returns the number of unresolved attempts.
func (r *AttemptRepo) CountPending(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM failed_attempts WHERE status = 'pending'`
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("failed to count pending attempts: %w", err)
	}
	return count, nil
}
