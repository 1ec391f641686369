package health

import (
	"context"
	"sync"
	"time"

	"github.com/vietddude/fhirgate/internal/pipeline"
)

// AttemptCounter exposes the pending failure journal depth.
type AttemptCounter interface {
	PendingCount(ctx context.Context) (int, error)
}

// Monitor aggregates health status from the dispatch pipeline and the
// failure journal.
type Monitor struct {
	pipe       *pipeline.Pipeline
	attempts   AttemptCounter
	lastCheck  time.Time
	lastReport Report
	mu         sync.Mutex
}

// NewMonitor creates a new health monitor.
func NewMonitor(pipe *pipeline.Pipeline, attempts AttemptCounter) *Monitor {
	return &Monitor{pipe: pipe, attempts: attempts}
}

// CheckHealth builds a health report. Checks are rate limited so the
// endpoint can't hammer the journal store.
func (m *Monitor) CheckHealth(ctx context.Context) Report {
	m.mu.Lock()
	defer m.mu.Unlock()

	if time.Since(m.lastCheck) < 5*time.Second && m.lastReport.Status != "" {
		return m.lastReport
	}

	status := m.pipe.GetStatus()
	report := Report{
		Status:        StatusHealthy,
		Running:       status.Running,
		LastPollError: status.LastPollError,
		RoutedValid:   status.RoutedValid,
		RoutedInvalid: status.RoutedInvalid,
		SinkFailures:  status.SinkFailures,
	}
	if !status.LastPoll.IsZero() {
		report.LastPoll = status.LastPoll.Format(time.RFC3339)
	}

	if m.attempts != nil {
		if pending, err := m.attempts.PendingCount(ctx); err == nil {
			report.PendingAttempts = pending
		}
	}

	// Evaluate status: a failing poll means nothing is being gated; a
	// growing journal means documents keep failing to reach a sink.
	switch {
	case status.LastPollError != "" || !status.Running:
		report.Status = StatusCritical
	case report.PendingAttempts > 0 || status.SinkFailures > 0:
		report.Status = StatusDegraded
	}

	m.lastCheck = time.Now()
	m.lastReport = report
	return report
}
