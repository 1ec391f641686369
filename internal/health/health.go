package health

// Status summarizes overall gate health.
type Status string

const (
	StatusHealthy  Status = "healthy"
	StatusDegraded Status = "degraded"
	StatusCritical Status = "critical"
)

// Report is one health snapshot.
type Report struct {
	Status          Status `json:"status"`
	Running         bool   `json:"running"`
	LastPoll        string `json:"last_poll,omitempty"`
	LastPollError   string `json:"last_poll_error,omitempty"`
	RoutedValid     uint64 `json:"routed_valid"`
	RoutedInvalid   uint64 `json:"routed_invalid"`
	SinkFailures    uint64 `json:"sink_failures"`
	PendingAttempts int    `json:"pending_attempts"`
}
