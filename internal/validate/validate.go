package validate

import (
	"context"

	"github.com/vietddude/fhirgate/internal/core/domain"
)

// Validator is the conformance-checking capability. Findings come back
// as issues; a returned error means the validator itself failed to run,
// which is distinct from the document failing validation.
type Validator interface {
	Validate(ctx context.Context, resource *domain.Resource) ([]domain.Issue, error)
}
