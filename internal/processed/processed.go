package processed

import (
	"context"
	"errors"

	"github.com/vietddude/fhirgate/internal/core/domain"
)

var (
	// ErrNotClaimed is returned when completing or releasing an
	// identifier that is not in flight.
	ErrNotClaimed = errors.New("document not claimed")
)

// Set is the idempotency tracker preventing duplicate terminal routing.
// Per identifier the state machine is Unseen -> InFlight ->
// Completed(valid|invalid); Completed is terminal.
type Set interface {
	// Claim atomically transitions an unseen identifier to in-flight.
	// It returns false when the identifier is already in flight or
	// completed; check-then-act is a single critical section.
	Claim(ctx context.Context, id string) (bool, error)

	// Complete marks a claimed identifier terminal with its destination.
	Complete(ctx context.Context, id string, dest domain.Destination) error

	// Release returns a claimed identifier to unseen so a later poll
	// can retry it (used when the sink write fails).
	Release(ctx context.Context, id string) error

	// Get reports the current state of an identifier. Destination is
	// meaningful only when the state is Completed.
	Get(ctx context.Context, id string) (domain.ProcessedState, domain.Destination, error)

	// Forget drops all state for an identifier so a corrected document
	// can be routed again (operator action, not part of the pipeline).
	Forget(ctx context.Context, id string) error
}
