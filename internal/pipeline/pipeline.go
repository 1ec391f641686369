package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vietddude/fhirgate/internal/core/domain"
	"github.com/vietddude/fhirgate/internal/infra/storage"
	"github.com/vietddude/fhirgate/internal/metrics"
	"github.com/vietddude/fhirgate/internal/processed"
	"github.com/vietddude/fhirgate/internal/recovery"
	"github.com/vietddude/fhirgate/internal/route"
	"github.com/vietddude/fhirgate/internal/source"
)

// Config holds pipeline configuration.
type Config struct {
	Source    source.Source
	Stage     *Stage
	Router    *route.Router
	Processed processed.Set
	Records   storage.RecordRepository
	Recovery  *recovery.Handler

	PollInterval time.Duration
	// Workers bounds concurrent documents per poll. 1 processes
	// documents sequentially in discovery order.
	Workers int
	// RemoveAfterRoute deletes the source item after a terminal routing.
	RemoveAfterRoute bool

	Log *slog.Logger
}

// Status is a snapshot of dispatch progress.
type Status struct {
	Running       bool      `json:"running"`
	LastPoll      time.Time `json:"last_poll"`
	LastPollError string    `json:"last_poll_error,omitempty"`
	RoutedValid   uint64    `json:"routed_valid"`
	RoutedInvalid uint64    `json:"routed_invalid"`
	Skipped       uint64    `json:"skipped"`
	SinkFailures  uint64    `json:"sink_failures"`
}

// Pipeline is the watcher/dispatcher: it polls the source and drives
// each undispatched document through validation and routing. Every
// discovered document ends in exactly one sink, or stays pending only
// while its sink is unwritable.
type Pipeline struct {
	cfg     Config
	running atomic.Bool
	stop    chan struct{}

	routedValid   atomic.Uint64
	routedInvalid atomic.Uint64
	skipped       atomic.Uint64
	sinkFailures  atomic.Uint64

	mu            sync.Mutex
	lastPoll      time.Time
	lastPollError string
}

// NewPipeline creates a new dispatch pipeline.
func NewPipeline(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	return &Pipeline{
		cfg:  cfg,
		stop: make(chan struct{}),
	}
}

// Start begins the poll loop and blocks until the context is cancelled
// or Stop is called. The loop is only stoppable between documents.
func (p *Pipeline) Start(ctx context.Context) error {
	if !p.running.CompareAndSwap(false, true) {
		return fmt.Errorf("pipeline already running")
	}
	defer p.running.Store(false)

	// A watchable source wakes the loop early when new items land.
	var wake <-chan struct{}
	if w, ok := p.cfg.Source.(source.Watchable); ok {
		ch, err := w.Watch(ctx)
		if err != nil {
			p.cfg.Log.Warn("Source watch unavailable, relying on poll ticker", "error", err)
		} else {
			wake = ch
		}
	}

	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	// Initial pass so queued documents don't wait a full interval.
	p.runPoll(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-p.stop:
			return nil
		case <-ticker.C:
			p.runPoll(ctx)
		case _, ok := <-wake:
			if !ok {
				wake = nil
				continue
			}
			p.runPoll(ctx)
		}
	}
}

// Stop stops the pipeline between documents.
func (p *Pipeline) Stop() error {
	if p.running.Load() {
		close(p.stop)
	}
	return nil
}

// GetStatus returns the current dispatch status.
func (p *Pipeline) GetStatus() Status {
	p.mu.Lock()
	lastPoll, lastErr := p.lastPoll, p.lastPollError
	p.mu.Unlock()
	return Status{
		Running:       p.running.Load(),
		LastPoll:      lastPoll,
		LastPollError: lastErr,
		RoutedValid:   p.routedValid.Load(),
		RoutedInvalid: p.routedInvalid.Load(),
		Skipped:       p.skipped.Load(),
		SinkFailures:  p.sinkFailures.Load(),
	}
}

// runPoll executes one discovery pass.
func (p *Pipeline) runPoll(ctx context.Context) {
	started := time.Now()
	docs, err := p.cfg.Source.Poll(ctx)
	p.mu.Lock()
	p.lastPoll = started
	if err != nil {
		p.lastPollError = err.Error()
	} else {
		p.lastPollError = ""
	}
	p.mu.Unlock()
	if err != nil {
		p.cfg.Log.Error("Source poll failed", "error", err)
		return
	}

	terminalBefore := p.routedValid.Load() + p.routedInvalid.Load() + p.skipped.Load()

	if p.cfg.Workers > 1 {
		p.dispatchConcurrent(ctx, docs)
	} else {
		for _, doc := range docs {
			// Stoppable between documents, never mid-document.
			select {
			case <-ctx.Done():
				return
			case <-p.stop:
				return
			default:
			}
			p.dispatch(ctx, doc)
		}
	}

	terminal := p.routedValid.Load() + p.routedInvalid.Load() + p.skipped.Load() - terminalBefore
	if pending := len(docs) - int(terminal); pending >= 0 {
		metrics.PendingDocuments.Set(float64(pending))
	}
	metrics.PollDuration.Observe(time.Since(started).Seconds())
}

// dispatchConcurrent fans distinct documents over a bounded worker
// pool. Correctness rests on the processed set's atomic claim.
func (p *Pipeline) dispatchConcurrent(ctx context.Context, docs []domain.Document) {
	queue := make(chan domain.Document)
	var wg sync.WaitGroup

	for i := 0; i < p.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for doc := range queue {
				p.dispatch(ctx, doc)
			}
		}()
	}

feed:
	for _, doc := range docs {
		select {
		case <-ctx.Done():
			break feed
		case <-p.stop:
			break feed
		case queue <- doc:
		}
	}
	close(queue)
	wg.Wait()
}

// dispatch drives one document to a terminal routing. No failure here
// escapes the dispatch loop; the loop only terminates on cancellation.
func (p *Pipeline) dispatch(ctx context.Context, doc domain.Document) {
	claimed, err := p.cfg.Processed.Claim(ctx, doc.ID)
	if err != nil {
		p.cfg.Log.Error("Processed set claim failed", "document", doc.ID, "error", err)
		return
	}
	if !claimed {
		p.skipped.Add(1)
		metrics.DocumentsSkipped.Inc()
		return
	}

	outcome, perr := p.cfg.Stage.Process(ctx, doc)

	var result domain.RoutingResult
	var routeErr error
	if perr != nil {
		// Forced terminal routing: the failure becomes the diagnostic.
		p.journalFailure(ctx, doc.ID, perr)
		result, routeErr = p.cfg.Router.RouteFailure(ctx, doc, perr)
	} else {
		result, routeErr = p.cfg.Router.Route(ctx, doc, outcome)
	}

	if routeErr != nil {
		// The document stays unrouted and unclaimed; the next poll
		// retries it. No retry loop here.
		p.sinkFailures.Add(1)
		var sinkErr *route.SinkWriteError
		if errors.As(routeErr, &sinkErr) {
			metrics.SinkWriteFailures.WithLabelValues(string(sinkErr.Destination)).Inc()
		}
		p.cfg.Log.Warn("Sink write failed, document remains pending", "document", doc.ID, "error", routeErr)
		p.journalFailure(ctx, doc.ID, routeErr)
		if err := p.cfg.Processed.Release(ctx, doc.ID); err != nil {
			p.cfg.Log.Error("Failed to release claim", "document", doc.ID, "error", err)
		}
		return
	}

	if err := p.cfg.Processed.Complete(ctx, doc.ID, result.Destination); err != nil {
		p.cfg.Log.Error("Failed to mark document completed", "document", doc.ID, "error", err)
	}

	record := buildRecord(result, outcome, perr)
	if p.cfg.Records != nil {
		if err := p.cfg.Records.Save(ctx, record); err != nil {
			p.cfg.Log.Error("Failed to save routing record", "document", doc.ID, "error", err)
		}
	}
	if p.cfg.Recovery != nil {
		if err := p.cfg.Recovery.Resolve(ctx, doc.ID); err != nil {
			p.cfg.Log.Warn("Failed to resolve journal entries", "document", doc.ID, "error", err)
		}
	}

	switch result.Destination {
	case domain.DestinationValid:
		p.routedValid.Add(1)
	case domain.DestinationInvalid:
		p.routedInvalid.Add(1)
	}
	metrics.DocumentsRouted.WithLabelValues(string(result.Destination)).Inc()

	if p.cfg.RemoveAfterRoute {
		if err := p.cfg.Source.Remove(ctx, doc.ID); err != nil {
			p.cfg.Log.Warn("Failed to remove routed source item", "document", doc.ID, "error", err)
		}
	}

	p.cfg.Log.Info("Document routed", "document", doc.ID, "destination", result.Destination)
}

func (p *Pipeline) journalFailure(ctx context.Context, documentID string, cause error) {
	if p.cfg.Recovery == nil {
		return
	}
	if err := p.cfg.Recovery.RecordFailure(ctx, documentID, failureType(cause), cause); err != nil {
		p.cfg.Log.Warn("Failed to journal attempt", "document", documentID, "error", err)
	}
}

func failureType(err error) domain.FailureType {
	var parseErr *ParseError
	var faultErr *ValidatorFault
	var readErr *ReadError
	var sinkErr *route.SinkWriteError
	switch {
	case errors.As(err, &parseErr):
		return domain.FailureTypeParse
	case errors.As(err, &faultErr):
		return domain.FailureTypeValidator
	case errors.As(err, &readErr):
		return domain.FailureTypeRead
	case errors.As(err, &sinkErr):
		return domain.FailureTypeSink
	default:
		return domain.FailureTypeValidator
	}
}

func buildRecord(result domain.RoutingResult, outcome domain.Outcome, processErr error) *domain.RoutingRecord {
	record := &domain.RoutingRecord{
		DocumentID:  result.DocumentID,
		Destination: result.Destination,
		Summary:     result.Diagnostic,
		RoutedAt:    time.Now(),
	}
	if processErr == nil {
		record.Passed = outcome.Passed
		record.ErrorCount = len(outcome.Errors)
		record.WarningCount = len(outcome.Warnings)
	}
	return record
}
