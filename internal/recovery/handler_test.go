package recovery

import (
	"context"
	"errors"
	"testing"

	"github.com/vietddude/fhirgate/internal/core/domain"
	"github.com/vietddude/fhirgate/internal/infra/storage/memory"
)

func newHandler() (*Handler, *memory.AttemptRepo) {
	repo := memory.NewAttemptRepo(memory.NewMemoryStorage())
	return NewHandler(repo), repo
}

func TestHandler_RecordFailure(t *testing.T) {
	ctx := context.Background()
	h, repo := newHandler()

	err := h.RecordFailure(ctx, "obs.json", domain.FailureTypeParse, errors.New("missing resource type"))
	if err != nil {
		t.Fatalf("RecordFailure failed: %v", err)
	}

	pending, err := repo.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending attempt, got %d", len(pending))
	}
	a := pending[0]
	if a.ID == "" {
		t.Error("expected a generated attempt ID")
	}
	if a.DocumentID != "obs.json" || a.FailureType != domain.FailureTypeParse {
		t.Errorf("unexpected attempt: %+v", a)
	}
	if a.Error != "missing resource type" {
		t.Errorf("unexpected error message: %q", a.Error)
	}
}

func TestHandler_ResolveClosesAllPending(t *testing.T) {
	ctx := context.Background()
	h, _ := newHandler()

	// Two failures for the same document, one for another.
	_ = h.RecordFailure(ctx, "obs.json", domain.FailureTypeSink, errors.New("disk full"))
	_ = h.RecordFailure(ctx, "obs.json", domain.FailureTypeSink, errors.New("disk full"))
	_ = h.RecordFailure(ctx, "patient.json", domain.FailureTypeValidator, errors.New("down"))

	if err := h.Resolve(ctx, "obs.json"); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	count, err := h.PendingCount(ctx)
	if err != nil {
		t.Fatalf("PendingCount failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 pending attempt after resolve, got %d", count)
	}
}
