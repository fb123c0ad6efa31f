package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PlansCalculated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bonusplan_plans_calculated_total",
			Help: "Total number of plans calculated",
		},
		[]string{"mode", "converged"},
	)

	PlanFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bonusplan_plan_failures_total",
			Help: "Total number of plan requests that produced no plan",
		},
		[]string{"mode", "reason"},
	)

	PlanIterations = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bonusplan_plan_iterations",
			Help:    "Convergence loop iterations per plan",
			Buckets: prometheus.LinearBuckets(1, 1, 12),
		},
		[]string{"mode"},
	)

	PlanDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bonusplan_plan_duration_seconds",
			Help:    "Time spent calculating a plan",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	JobExportsImported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bonusplan_job_exports_imported_total",
			Help: "Total number of job exports summarized",
		},
		[]string{"format", "status"},
	)
)
