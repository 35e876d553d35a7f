package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evidencelens_analyses_total",
			Help: "Total number of analysis submissions by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "evidencelens_analysis_duration_seconds",
			Help:    "Duration of analysis submissions in seconds",
			Buckets: []float64{1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"mode"},
	)

	EncodeFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "evidencelens_encode_failures_total",
			Help: "Total number of files that could not be encoded",
		},
	)

	RemoteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evidencelens_remote_failures_total",
			Help: "Total number of classified remote failures by kind and operation",
		},
		[]string{"operation", "kind"},
	)

	ChatTurns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evidencelens_chat_turns_total",
			Help: "Total number of chat turns by outcome",
		},
		[]string{"outcome"},
	)

	GeneratorCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evidencelens_generator_calls_total",
			Help: "Total number of auxiliary generator calls by generator and outcome",
		},
		[]string{"generator", "outcome"},
	)
)
