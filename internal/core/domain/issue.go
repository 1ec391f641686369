package domain

type Severity string

const (
	SeverityFatal       Severity = "fatal"
	SeverityError       Severity = "error"
	SeverityWarning     Severity = "warning"
	SeverityInformation Severity = "information"
)

// Issue is one validator finding.
type Issue struct {
	Severity Severity `json:"severity"`
	Location string   `json:"location"`
	Message  string   `json:"message"`
}

// Outcome is the classified result of validating one document. Passed
// is true iff the errors bucket is empty; warnings and information
// never affect it.
type Outcome struct {
	Passed      bool
	Errors      []Issue
	Warnings    []Issue
	Information []Issue
}
