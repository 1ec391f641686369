package source

import (
	"context"

	"github.com/vietddude/fhirgate/internal/core/domain"
)

// Source is an ordered, re-pollable container of documents. Items may
// remain present after being read; callers must not assume removal.
type Source interface {
	// Poll returns the documents currently present, in discovery order.
	// Each poll is independent and may re-observe items still present.
	Poll(ctx context.Context) ([]domain.Document, error)

	// Remove deletes an item from the source after a terminal routing.
	Remove(ctx context.Context, id string) error
}

// Watchable sources can signal that new items may have appeared, so the
// dispatcher can poll without waiting for the next tick.
type Watchable interface {
	// Watch returns a channel that receives a signal when the source
	// changes. The channel closes when ctx is cancelled.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
