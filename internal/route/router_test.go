package route

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vietddude/fhirgate/internal/core/domain"
)

type mockSink struct {
	writes []mockWrite
	err    error
}

type mockWrite struct {
	doc  domain.Document
	diag *domain.DiagnosticRecord
}

func (m *mockSink) Write(ctx context.Context, doc domain.Document, diag *domain.DiagnosticRecord) error {
	if m.err != nil {
		return m.err
	}
	m.writes = append(m.writes, mockWrite{doc: doc, diag: diag})
	return nil
}

func TestRouter_PassedGoesToValidWithoutDiagnostic(t *testing.T) {
	valid := &mockSink{}
	invalid := &mockSink{}
	r := NewRouter(valid, invalid, nil)

	doc := domain.Document{ID: "patient.json", Content: []byte("{}")}
	outcome := domain.Outcome{
		Passed:   true,
		Warnings: []domain.Issue{{Severity: domain.SeverityWarning, Location: "Patient", Message: "w"}},
	}

	result, err := r.Route(context.Background(), doc, outcome)
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if result.Destination != domain.DestinationValid {
		t.Errorf("expected valid destination, got %s", result.Destination)
	}
	if result.Diagnostic != "" {
		t.Errorf("expected no diagnostic, got %q", result.Diagnostic)
	}
	if len(valid.writes) != 1 || len(invalid.writes) != 0 {
		t.Fatalf("expected exactly one valid write, got %d/%d", len(valid.writes), len(invalid.writes))
	}
	if valid.writes[0].diag != nil {
		t.Error("valid routing must not carry a diagnostic record")
	}
}

func TestRouter_FailedGoesToInvalidWithSummary(t *testing.T) {
	valid := &mockSink{}
	invalid := &mockSink{}
	r := NewRouter(valid, invalid, nil)

	doc := domain.Document{ID: "obs.json", Content: []byte("{}")}
	outcome := domain.Outcome{
		Passed: false,
		Errors: []domain.Issue{
			{Severity: domain.SeverityError, Location: "Observation.status", Message: "minimum required = 1, but only found 0"},
			{Severity: domain.SeverityFatal, Location: "Observation.code", Message: "minimum required = 1, but only found 0"},
		},
		Warnings: []domain.Issue{{Severity: domain.SeverityWarning, Location: "Observation", Message: "w"}},
	}

	result, err := r.Route(context.Background(), doc, outcome)
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if result.Destination != domain.DestinationInvalid {
		t.Errorf("expected invalid destination, got %s", result.Destination)
	}
	if len(invalid.writes) != 1 || len(valid.writes) != 0 {
		t.Fatalf("expected exactly one invalid write, got %d/%d", len(invalid.writes), len(valid.writes))
	}

	diag := invalid.writes[0].diag
	if diag == nil {
		t.Fatal("expected a diagnostic record")
	}
	if diag.ErrorCount != 2 || diag.WarningCount != 1 || diag.Passed {
		t.Errorf("unexpected diagnostic counts: %+v", diag)
	}
	if !strings.Contains(diag.Summary, "Observation.status: minimum required = 1, but only found 0") {
		t.Errorf("summary missing error line: %q", diag.Summary)
	}
	if len(strings.Split(diag.Summary, "\n")) != 2 {
		t.Errorf("expected 2 summary lines, got %q", diag.Summary)
	}
}

func TestRouter_RouteFailureUsesCauseMessage(t *testing.T) {
	valid := &mockSink{}
	invalid := &mockSink{}
	r := NewRouter(valid, invalid, nil)

	doc := domain.Document{ID: "broken.json"}
	result, err := r.RouteFailure(context.Background(), doc, errors.New("missing resource type"))
	if err != nil {
		t.Fatalf("RouteFailure failed: %v", err)
	}
	if result.Destination != domain.DestinationInvalid {
		t.Errorf("expected invalid destination, got %s", result.Destination)
	}
	if result.Diagnostic != "missing resource type" {
		t.Errorf("expected cause as diagnostic, got %q", result.Diagnostic)
	}
	if len(invalid.writes) != 1 || invalid.writes[0].diag.Summary != "missing resource type" {
		t.Errorf("unexpected sink write: %+v", invalid.writes)
	}
}

func TestRouter_SinkFailureReturnsSinkWriteError(t *testing.T) {
	valid := &mockSink{err: errors.New("disk full")}
	invalid := &mockSink{}
	r := NewRouter(valid, invalid, nil)

	doc := domain.Document{ID: "patient.json"}
	_, err := r.Route(context.Background(), doc, domain.Outcome{Passed: true})
	var sinkErr *SinkWriteError
	if !errors.As(err, &sinkErr) {
		t.Fatalf("expected SinkWriteError, got %v", err)
	}
	if sinkErr.Destination != domain.DestinationValid {
		t.Errorf("expected valid destination in error, got %s", sinkErr.Destination)
	}
}

func TestFSSink_WriteIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	sink := NewFSSink(filepath.Join(dir, "invalid"))

	doc := domain.Document{ID: "obs.json", Content: []byte(`{"resourceType":"Observation"}`)}
	diag := domain.NewDiagnosticRecord("obs.json", domain.Outcome{
		Errors: []domain.Issue{{Severity: domain.SeverityError, Location: "Observation.status", Message: "minimum required = 1, but only found 0"}},
	})

	for i := 0; i < 2; i++ {
		if err := sink.Write(context.Background(), doc, &diag); err != nil {
			t.Fatalf("Write %d failed: %v", i, err)
		}
	}

	entries, err := os.ReadDir(filepath.Join(dir, "invalid"))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 2 { // document + companion diagnostic
		t.Fatalf("expected 2 files after double write, got %d", len(entries))
	}

	data, err := os.ReadFile(filepath.Join(dir, "invalid", "obs.json.diag.json"))
	if err != nil {
		t.Fatalf("read diagnostic: %v", err)
	}
	var decoded domain.DiagnosticRecord
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode diagnostic: %v", err)
	}
	if decoded.DocumentID != "obs.json" || decoded.ErrorCount != 1 {
		t.Errorf("unexpected diagnostic: %+v", decoded)
	}
}
