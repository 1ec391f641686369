package route

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vietddude/fhirgate/internal/core/domain"
)

// Sink is a terminal destination for routed documents. Writes of the
// same identifier must be idempotent so a crash-retry never duplicates.
type Sink interface {
	// Write stores the document unchanged. A non-nil diagnostic is
	// attached out-of-band, never embedded in the document body.
	Write(ctx context.Context, doc domain.Document, diag *domain.DiagnosticRecord) error
}

// FSSink writes routed documents into a directory, with the diagnostic
// as a companion <name>.diag.json file.
type FSSink struct {
	dir string
}

// NewFSSink creates a directory-backed sink.
func NewFSSink(dir string) *FSSink {
	return &FSSink{dir: dir}
}

// Write copies the document into the sink directory. Re-writing the
// same identifier truncates and replaces, so retries stay idempotent.
func (s *FSSink) Write(ctx context.Context, doc domain.Document, diag *domain.DiagnosticRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create sink dir: %w", err)
	}

	target := filepath.Join(s.dir, doc.ID)
	if err := os.WriteFile(target, doc.Content, 0o644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	if diag == nil {
		return nil
	}
	data, err := json.MarshalIndent(diag, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal diagnostic: %w", err)
	}
	diagPath := filepath.Join(s.dir, doc.ID+".diag.json")
	if err := os.WriteFile(diagPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write diagnostic: %w", err)
	}
	return nil
}
