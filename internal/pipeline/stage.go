package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vietddude/fhirgate/internal/core/domain"
	"github.com/vietddude/fhirgate/internal/metrics"
	"github.com/vietddude/fhirgate/internal/validate"
)

// Stage parses a document, invokes the validator, and classifies the
// findings. It never mutates the document; its only output is the
// outcome or a typed failure.
type Stage struct {
	validator validate.Validator
}

// NewStage creates a validation stage over a validator capability.
func NewStage(validator validate.Validator) *Stage {
	return &Stage{validator: validator}
}

// Process runs parse -> validate -> classify for one document.
// It fails with *ParseError when the envelope is broken, with
// *ReadError when the content was never readable, and with
// *ValidatorFault when the validator itself errors.
func (s *Stage) Process(ctx context.Context, doc domain.Document) (domain.Outcome, error) {
	if doc.ReadErr != nil {
		return domain.Outcome{}, &ReadError{Path: doc.Path, Err: doc.ReadErr}
	}

	resource, err := ParseResource(doc.Content)
	if err != nil {
		metrics.ParseFailures.Inc()
		return domain.Outcome{}, err
	}

	issues, err := s.validator.Validate(ctx, resource)
	if err != nil {
		metrics.ValidatorFaults.Inc()
		return domain.Outcome{}, &ValidatorFault{Err: err}
	}
	for _, issue := range issues {
		metrics.ValidationIssues.WithLabelValues(string(issue.Severity)).Inc()
	}

	return Classify(issues), nil
}

// ParseResource decodes a document body into a typed resource. The
// resourceType discriminator must be present or the parse fails.
func ParseResource(content []byte) (*domain.Resource, error) {
	var fields map[string]any
	if err := json.Unmarshal(content, &fields); err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("malformed JSON: %v", err)}
	}

	resourceType, ok := fields["resourceType"].(string)
	if !ok || resourceType == "" {
		return nil, &ParseError{Reason: "missing resource type"}
	}

	return &domain.Resource{Type: resourceType, Fields: fields}, nil
}
