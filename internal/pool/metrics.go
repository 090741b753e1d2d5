package pool

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tasksDispatchedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crusher_tasks_dispatched_total",
			Help: "Tasks handed to a worker by the dispatcher",
		},
	)
	tasksCompletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crusher_tasks_completed_total",
			Help: "Replies delivered to callers, labeled by status",
		},
		[]string{"status"},
	)
	taskDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crusher_task_duration_seconds",
			Help:    "Total pipeline wall time per task",
			Buckets: prometheus.DefBuckets,
		},
	)
	workersAlive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "crusher_workers_alive",
			Help: "Workers currently in the rotation",
		},
	)
)
