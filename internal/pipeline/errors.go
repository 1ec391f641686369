package pipeline

import "fmt"

// ParseError means the content does not conform to the expected
// document envelope. It is recovered locally: the document routes to
// the invalid sink with the reason as its diagnostic.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string { return e.Reason }

// ValidatorFault means the validation capability itself failed, as
// opposed to the document failing validation. Also recovered locally,
// but kept distinguishable so operators can tell bad input from a
// broken validator.
type ValidatorFault struct {
	Err error
}

func (e *ValidatorFault) Error() string { return fmt.Sprintf("validator fault: %v", e.Err) }

func (e *ValidatorFault) Unwrap() error { return e.Err }

// ReadError means the document content could not be read from the
// source. The document still gets a terminal routing.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string { return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err) }

func (e *ReadError) Unwrap() error { return e.Err }
