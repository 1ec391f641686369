package recovery

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vietddude/fhirgate/internal/core/domain"
	"github.com/vietddude/fhirgate/internal/infra/storage"
)

// Handler maintains the failure journal so operators can tell "bad
// input" from "broken validator" or "unwritable sink" without reading
// logs back in time.
type Handler struct {
	repo storage.AttemptRepository
}

// NewHandler creates a new failure journal handler.
func NewHandler(repo storage.AttemptRepository) *Handler {
	return &Handler{repo: repo}
}

// RecordFailure journals one failed processing attempt.
func (h *Handler) RecordFailure(ctx context.Context, documentID string, failureType domain.FailureType, cause error) error {
	attempt := &domain.FailedAttempt{
		ID:          uuid.New().String(),
		DocumentID:  documentID,
		FailureType: failureType,
		Error:       cause.Error(),
		Status:      domain.AttemptStatusPending,
		CreatedAt:   time.Now(),
	}
	if err := h.repo.Add(ctx, attempt); err != nil {
		return fmt.Errorf("failed to journal attempt: %w", err)
	}
	return nil
}

// Resolve closes all pending journal entries for a document once it
// reaches a terminal routing.
func (h *Handler) Resolve(ctx context.Context, documentID string) error {
	if err := h.repo.MarkResolved(ctx, documentID); err != nil {
		return fmt.Errorf("failed to resolve attempts: %w", err)
	}
	return nil
}

// PendingCount reports unresolved journal entries.
func (h *Handler) PendingCount(ctx context.Context) (int, error) {
	return h.repo.CountPending(ctx)
}
