package route

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vietddude/fhirgate/internal/core/domain"
)

// SinkWriteError marks a failed write to a terminal sink. The document
// stays unrouted and stays eligible for the next poll.
type SinkWriteError struct {
	Destination domain.Destination
	Err         error
}

func (e *SinkWriteError) Error() string {
	return fmt.Sprintf("failed to write to %s sink: %v", e.Destination, e.Err)
}

func (e *SinkWriteError) Unwrap() error { return e.Err }

// Router moves a document to exactly one of the two sinks based on its
// classified outcome. The document body is never altered.
type Router struct {
	valid   Sink
	invalid Sink
	log     *slog.Logger
}

// NewRouter creates a router over the two terminal sinks.
func NewRouter(valid, invalid Sink, log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}
	return &Router{valid: valid, invalid: invalid, log: log}
}

// Route delivers a document per its outcome. Passed outcomes go to the
// valid sink with no diagnostic; warnings surface as log annotations
// only and never change the destination.
func (r *Router) Route(ctx context.Context, doc domain.Document, outcome domain.Outcome) (domain.RoutingResult, error) {
	if outcome.Passed {
		if err := r.valid.Write(ctx, doc, nil); err != nil {
			return domain.RoutingResult{}, &SinkWriteError{Destination: domain.DestinationValid, Err: err}
		}
		for _, w := range outcome.Warnings {
			r.log.Warn("Validation warning", "document", doc.ID, "location", w.Location, "message", w.Message)
		}
		for _, i := range outcome.Information {
			r.log.Debug("Validation note", "document", doc.ID, "location", i.Location, "message", i.Message)
		}
		return domain.RoutingResult{
			DocumentID:  doc.ID,
			Destination: domain.DestinationValid,
		}, nil
	}

	diag := domain.NewDiagnosticRecord(doc.ID, outcome)
	if err := r.invalid.Write(ctx, doc, &diag); err != nil {
		return domain.RoutingResult{}, &SinkWriteError{Destination: domain.DestinationInvalid, Err: err}
	}
	return domain.RoutingResult{
		DocumentID:  doc.ID,
		Destination: domain.DestinationInvalid,
		Diagnostic:  diag.Summary,
	}, nil
}

// RouteFailure forces a terminal routing to the invalid sink for a
// document whose processing failed before an outcome existed. The
// cause's message becomes the diagnostic.
func (r *Router) RouteFailure(ctx context.Context, doc domain.Document, cause error) (domain.RoutingResult, error) {
	diag := domain.DiagnosticRecord{
		DocumentID: doc.ID,
		Passed:     false,
		Summary:    cause.Error(),
	}
	if err := r.invalid.Write(ctx, doc, &diag); err != nil {
		return domain.RoutingResult{}, &SinkWriteError{Destination: domain.DestinationInvalid, Err: err}
	}
	return domain.RoutingResult{
		DocumentID:  doc.ID,
		Destination: domain.DestinationInvalid,
		Diagnostic:  diag.Summary,
	}, nil
}
