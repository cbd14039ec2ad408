// Package metrics exposes Prometheus instrumentation for the clip service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clipstitch_jobs_total",
			Help: "Total processed clip jobs by outcome.",
		},
		[]string{"outcome"}, // completed, failed
	)

	JobDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clipstitch_job_duration_seconds",
			Help:    "Wall time from request validation to terminal event.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	ToolRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clipstitch_tool_runs_total",
			Help: "External tool invocations by tool and outcome.",
		},
		[]string{"tool", "outcome"}, // tool: resolver, transcoder
	)

	SegmentsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clipstitch_segments_processed_total",
			Help: "Segments successfully resolved and cut.",
		},
	)

	JobsRegistered = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "clipstitch_jobs_registered",
			Help: "Jobs currently held in the registry.",
		},
	)
)
