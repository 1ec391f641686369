package pipeline

import (
	"testing"

	"github.com/vietddude/fhirgate/internal/core/domain"
)

func TestClassify_EmptyIssuesPasses(t *testing.T) {
	outcome := Classify(nil)
	if !outcome.Passed {
		t.Error("expected empty issue list to pass")
	}
	if len(outcome.Errors)+len(outcome.Warnings)+len(outcome.Information) != 0 {
		t.Error("expected all buckets empty")
	}
}

func TestClassify_FatalAndErrorMergeIntoErrors(t *testing.T) {
	issues := []domain.Issue{
		{Severity: domain.SeverityFatal, Location: "a", Message: "fatal"},
		{Severity: domain.SeverityError, Location: "b", Message: "error"},
	}
	outcome := Classify(issues)
	if outcome.Passed {
		t.Error("expected failure with fatal/error findings")
	}
	if len(outcome.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(outcome.Errors))
	}
	if outcome.Errors[0].Location != "a" || outcome.Errors[1].Location != "b" {
		t.Error("expected emission order preserved within bucket")
	}
}

func TestClassify_WarningsNeverAffectPassFail(t *testing.T) {
	issues := []domain.Issue{
		{Severity: domain.SeverityWarning, Location: "a", Message: "w1"},
		{Severity: domain.SeverityInformation, Location: "b", Message: "i1"},
		{Severity: domain.SeverityWarning, Location: "c", Message: "w2"},
	}
	outcome := Classify(issues)
	if !outcome.Passed {
		t.Error("expected warnings/information only to pass")
	}
	if len(outcome.Warnings) != 2 || len(outcome.Information) != 1 {
		t.Errorf("unexpected buckets: %d warnings, %d information",
			len(outcome.Warnings), len(outcome.Information))
	}
	if outcome.Warnings[0].Message != "w1" || outcome.Warnings[1].Message != "w2" {
		t.Error("expected stable partition order")
	}
}

func TestClassify_ReorderingNonErrorsKeepsPassed(t *testing.T) {
	forward := []domain.Issue{
		{Severity: domain.SeverityWarning, Location: "a", Message: "w"},
		{Severity: domain.SeverityInformation, Location: "b", Message: "i"},
	}
	reversed := []domain.Issue{forward[1], forward[0]}

	if Classify(forward).Passed != Classify(reversed).Passed {
		t.Error("reordering non-error issues changed pass/fail")
	}
}

func TestClassify_AnyErrorFlipsPassed(t *testing.T) {
	base := []domain.Issue{
		{Severity: domain.SeverityWarning, Location: "a", Message: "w"},
	}
	if !Classify(base).Passed {
		t.Fatal("expected warnings-only to pass")
	}
	for _, sev := range []domain.Severity{domain.SeverityError, domain.SeverityFatal} {
		withError := append([]domain.Issue{{Severity: sev, Location: "x", Message: "m"}}, base...)
		if Classify(withError).Passed {
			t.Errorf("inserting %s issue did not flip passed", sev)
		}
	}
}

func TestClassify_UnknownSeverityFailsClosed(t *testing.T) {
	issues := []domain.Issue{
		{Severity: domain.Severity("debug"), Location: "a", Message: "m"},
	}
	outcome := Classify(issues)
	if outcome.Passed {
		t.Error("expected unknown severity to fail closed")
	}
	if len(outcome.Errors) != 1 {
		t.Errorf("expected unknown severity in errors bucket, got %+v", outcome)
	}
}
