package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DocumentsRouted tracks terminal routings per destination
	DocumentsRouted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fhirgate_documents_routed_total",
			Help: "Total number of documents routed to a terminal sink",
		},
		[]string{"destination"},
	)

	// DocumentsSkipped tracks re-polled documents already completed
	DocumentsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fhirgate_documents_skipped_total",
			Help: "Total number of discovered documents skipped as already processed",
		},
	)

	// ParseFailures tracks documents rejected before validation
	ParseFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fhirgate_parse_failures_total",
			Help: "Total number of documents that failed envelope parsing",
		},
	)

	// ValidatorFaults tracks execution failures of the validator itself
	ValidatorFaults = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fhirgate_validator_faults_total",
			Help: "Total number of validator execution failures (not findings)",
		},
	)

	// SinkWriteFailures tracks failed sink writes (document stays pending)
	SinkWriteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fhirgate_sink_write_failures_total",
			Help: "Total number of failed writes to a terminal sink",
		},
		[]string{"destination"},
	)

	// ValidationIssues tracks validator findings by severity
	ValidationIssues = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fhirgate_validation_issues_total",
			Help: "Total number of validation findings",
		},
		[]string{"severity"},
	)

	// PollDuration tracks how long one discovery pass takes
	PollDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fhirgate_poll_duration_seconds",
			Help:    "Duration of one source poll cycle in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// PendingDocuments tracks documents discovered but not yet terminal
	PendingDocuments = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fhirgate_pending_documents",
			Help: "Documents discovered in the last poll without a terminal routing",
		},
	)
)
