package domain

import "time"

// FailedAttempt is one journal entry for a processing failure.
type FailedAttempt struct {
	ID          string        `db:"id"`
	DocumentID  string        `db:"document_id"`
	FailureType FailureType   `db:"failure_type"`
	Error       string        `db:"error_msg"`
	Status      AttemptStatus `db:"status"`
	CreatedAt   time.Time     `db:"created_at"`
}

type AttemptStatus string

const (
	AttemptStatusPending  AttemptStatus = "pending"
	AttemptStatusResolved AttemptStatus = "resolved"
)

type FailureType string

const (
	FailureTypeRead      FailureType = "read"
	FailureTypeParse     FailureType = "parse"
	FailureTypeValidator FailureType = "validator"
	FailureTypeSink      FailureType = "sink"
)
