// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	EligibilityEvaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eligibility_evaluations_total",
			Help: "Evaluations by scheme, result kind and outcome",
		},
		[]string{"scheme", "kind", "outcome"},
	)

	EligibilityScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eligibility_score",
			Help:    "Total score of points-scheme evaluations",
			Buckets: prometheus.LinearBuckets(0, 10, 13),
		},
		[]string{"scheme"},
	)

	ConstantsLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eligibility_constants_lookups_total",
			Help: "Reference-constant lookups by the source that answered",
		},
		[]string{"source"},
	)
)

// Outcomes of an evaluation.
const (
	OutcomePass     = "pass"
	OutcomeFail     = "fail"
	OutcomeRejected = "rejected"
)

// RecordEvaluation counts one evaluation. kind is empty for rejected input.
func RecordEvaluation(scheme, kind, outcome string) {
	EligibilityEvaluations.WithLabelValues(scheme, kind, outcome).Inc()
}

// RecordScore observes a points-scheme total.
func RecordScore(scheme string, total int) {
	EligibilityScore.WithLabelValues(scheme).Observe(float64(total))
}

// RecordConstantsLookup counts which layer answered a constants lookup.
func RecordConstantsLookup(source string) {
	ConstantsLookups.WithLabelValues(source).Inc()
}
