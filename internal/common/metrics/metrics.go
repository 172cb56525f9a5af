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

	QueryDetections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolver_query_detections_total",
			Help: "Query classifications by search type and the tier that produced them",
		},
		[]string{"search_type", "method"},
	)

	SemanticFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolver_semantic_fallbacks_total",
			Help: "Semantic follow-up analyses that fell through to heuristics",
		},
		[]string{"reason"},
	)

	FollowUpDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolver_followup_decisions_total",
			Help: "Follow-up reuse decisions by outcome and reason",
		},
		[]string{"reuse", "reason"},
	)

	ContextResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolver_context_resolutions_total",
			Help: "Context resolutions by provenance",
		},
		[]string{"provenance"},
	)

	OpeningStatuses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolver_opening_status_total",
			Help: "Opening-hours evaluations by resulting status",
		},
		[]string{"status"},
	)

	RankedPOIs = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resolver_ranked_pois",
			Help:    "Number of POIs returned per turn",
			Buckets: []float64{0, 1, 3, 5, 10, 20, 50},
		},
		[]string{"path"},
	)
)
