package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/vietddude/fhirgate/internal/core/domain"
)

type mockValidator struct {
	issues []domain.Issue
	err    error
	seen   []*domain.Resource
}

func (m *mockValidator) Validate(ctx context.Context, resource *domain.Resource) ([]domain.Issue, error) {
	m.seen = append(m.seen, resource)
	return m.issues, m.err
}

func TestStage_ValidDocumentPasses(t *testing.T) {
	validator := &mockValidator{}
	stage := NewStage(validator)

	doc := domain.Document{ID: "patient.json", Content: []byte(`{"resourceType":"Patient","id":"example"}`)}
	outcome, err := stage.Process(context.Background(), doc)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if !outcome.Passed {
		t.Error("expected no-issue document to pass")
	}
	if len(validator.seen) != 1 || validator.seen[0].Type != "Patient" {
		t.Errorf("validator saw wrong resource: %+v", validator.seen)
	}
}

func TestStage_MissingResourceTypeIsParseError(t *testing.T) {
	stage := NewStage(&mockValidator{})

	doc := domain.Document{ID: "bad.json", Content: []byte(`{"id":"example","gender":"male"}`)}
	_, err := stage.Process(context.Background(), doc)

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Error() != "missing resource type" {
		t.Errorf("expected diagnostic %q, got %q", "missing resource type", parseErr.Error())
	}
}

func TestStage_MalformedJSONIsParseError(t *testing.T) {
	validator := &mockValidator{}
	stage := NewStage(validator)

	doc := domain.Document{ID: "broken.json", Content: []byte(`{"resourceType": "Patient" "id": "x"}`)}
	_, err := stage.Process(context.Background(), doc)

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if len(validator.seen) != 0 {
		t.Error("validator must not run on unparseable content")
	}
}

func TestStage_ValidatorErrorIsFault(t *testing.T) {
	stage := NewStage(&mockValidator{err: errors.New("terminology service down")})

	doc := domain.Document{ID: "obs.json", Content: []byte(`{"resourceType":"Observation"}`)}
	_, err := stage.Process(context.Background(), doc)

	var fault *ValidatorFault
	if !errors.As(err, &fault) {
		t.Fatalf("expected ValidatorFault, got %v", err)
	}
}

func TestStage_ReadFailureIsReadError(t *testing.T) {
	stage := NewStage(&mockValidator{})

	doc := domain.Document{ID: "gone.json", Path: "/input/gone.json", ReadErr: errors.New("permission denied")}
	_, err := stage.Process(context.Background(), doc)

	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("expected ReadError, got %v", err)
	}
}

func TestStage_ErrorIssueFailsOutcome(t *testing.T) {
	validator := &mockValidator{
		issues: []domain.Issue{
			{Severity: domain.SeverityError, Location: "Observation.status", Message: "minimum required = 1, but only found 0"},
		},
	}
	stage := NewStage(validator)

	doc := domain.Document{ID: "obs.json", Content: []byte(`{"resourceType":"Observation"}`)}
	outcome, err := stage.Process(context.Background(), doc)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if outcome.Passed {
		t.Error("expected failure with one error issue")
	}
	if len(outcome.Errors) != 1 {
		t.Errorf("expected 1 error, got %d", len(outcome.Errors))
	}
}
