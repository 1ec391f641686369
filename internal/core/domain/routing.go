package domain

import (
	"strings"
	"time"
)

type Destination string

const (
	DestinationValid   Destination = "valid"
	DestinationInvalid Destination = "invalid"
)

type ProcessedState string

const (
	StateUnseen    ProcessedState = "unseen"
	StateInFlight  ProcessedState = "in_flight"
	StateCompleted ProcessedState = "completed"
)

// RoutingResult describes one terminal routing decision.
type RoutingResult struct {
	DocumentID  string
	Destination Destination
	// Diagnostic is the human-readable summary attached to invalid
	// routings; empty for valid ones.
	Diagnostic string
}

// DiagnosticRecord is the out-of-band metadata written next to a
// document routed invalid. The document body itself stays untouched.
type DiagnosticRecord struct {
	DocumentID   string `json:"documentId"`
	Passed       bool   `json:"passed"`
	ErrorCount   int    `json:"errorCount"`
	WarningCount int    `json:"warningCount"`
	Summary      string `json:"summary"`
}

// NewDiagnosticRecord builds the diagnostic for a failed outcome. The
// summary lists the error findings, one "<location>: <message>" line
// each, in classification order.
func NewDiagnosticRecord(documentID string, outcome Outcome) DiagnosticRecord {
	lines := make([]string, 0, len(outcome.Errors))
	for _, issue := range outcome.Errors {
		lines = append(lines, issue.Location+": "+issue.Message)
	}
	return DiagnosticRecord{
		DocumentID:   documentID,
		Passed:       outcome.Passed,
		ErrorCount:   len(outcome.Errors),
		WarningCount: len(outcome.Warnings),
		Summary:      strings.Join(lines, "\n"),
	}
}

// RoutingRecord is the persisted audit row for one terminal routing.
type RoutingRecord struct {
	DocumentID   string      `db:"document_id"`
	Destination  Destination `db:"destination"`
	Passed       bool        `db:"passed"`
	ErrorCount   int         `db:"error_count"`
	WarningCount int         `db:"warning_count"`
	Summary      string      `db:"summary"`
	RoutedAt     time.Time   `db:"routed_at"`
}
