package pipeline

import "github.com/vietddude/fhirgate/internal/core/domain"

// Classify partitions validator findings into severity buckets. The
// partition is stable: issues keep the relative order the validator
// emitted them in. Fatal and Error merge into the errors bucket, and
// passed is true iff that bucket is empty. This is the single
// authoritative pass/fail rule; no other component overrides it.
func Classify(issues []domain.Issue) domain.Outcome {
	var outcome domain.Outcome
	for _, issue := range issues {
		switch issue.Severity {
		case domain.SeverityFatal, domain.SeverityError:
			outcome.Errors = append(outcome.Errors, issue)
		case domain.SeverityWarning:
			outcome.Warnings = append(outcome.Warnings, issue)
		case domain.SeverityInformation:
			outcome.Information = append(outcome.Information, issue)
		default:
			// An unrecognized severity fails closed rather than being
			// silently dropped.
			outcome.Errors = append(outcome.Errors, issue)
		}
	}
	outcome.Passed = len(outcome.Errors) == 0
	return outcome
}
