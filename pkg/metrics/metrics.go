package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Assignment flow
	AssignmentsCommitted  prometheus.Counter
	ComplianceRejections  prometheus.Counter
	DuplicateConflicts    prometheus.Counter
	AssignmentStoreErrors prometheus.Counter
	ComplianceOverrides   prometheus.Counter

	// Auto-fill
	AutoFillShiftsFilled   prometheus.Counter
	AutoFillShiftsUnfilled prometheus.Counter
	AutoFillDuration       prometheus.Histogram

	// Competency matrix
	MatrixBuildLatency      prometheus.Histogram
	DegradedModeActivations prometheus.Counter

	// Outbox relay
	OutboxEventsProcessed   prometheus.Counter
	OutboxEventsFailed      prometheus.Counter
	OutboxProcessingLatency prometheus.Histogram
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		AssignmentsCommitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assignments_committed_total",
			Help:      "Total number of shift assignments written to the store",
		}),
		ComplianceRejections: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compliance_rejections_total",
			Help:      "Total number of assignment attempts rejected by the compliance guard",
		}),
		DuplicateConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicate_assignment_conflicts_total",
			Help:      "Total number of assignment attempts rejected by the uniqueness constraint",
		}),
		AssignmentStoreErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assignment_store_errors_total",
			Help:      "Total number of assignment attempts failed by the persistence layer",
		}),
		ComplianceOverrides: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compliance_overrides_total",
			Help:      "Total number of assignments written with the compliance override flag",
		}),
		AutoFillShiftsFilled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "autofill_shifts_filled_total",
			Help:      "Total number of shifts filled by the auto-fill planner",
		}),
		AutoFillShiftsUnfilled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "autofill_shifts_unfilled_total",
			Help:      "Total number of shifts the auto-fill planner could not fill",
		}),
		AutoFillDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "autofill_duration_seconds",
			Help:      "Time spent running an auto-fill pass",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		MatrixBuildLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "competency_matrix_build_duration_seconds",
			Help:      "Time spent building the competency matrix",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		DegradedModeActivations: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degraded_mode_activations_total",
			Help:      "Total number of times the competency matrix fell back to the degraded-mode dataset",
		}),
		OutboxEventsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_processed_total",
			Help:      "Total number of successfully relayed outbox events",
		}),
		OutboxEventsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_failed_total",
			Help:      "Total number of outbox events that failed to relay",
		}),
		OutboxProcessingLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "outbox_processing_duration_seconds",
			Help:      "Time spent relaying outbox events",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
	}
}
