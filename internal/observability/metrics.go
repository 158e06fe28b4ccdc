package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "betweenlines_analyses_total",
		Help: "The total number of analysis requests",
	}, []string{"surface", "status"})

	ClassifierPath = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "betweenlines_classifier_path_total",
		Help: "How analyses were classified (remote vs heuristic fallback)",
	}, []string{"path"})

	UploadsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "betweenlines_uploads_rejected_total",
		Help: "Uploads rejected before analysis",
	}, []string{"reason"})

	ParseDroppedLines = promauto.NewCounter(prometheus.CounterOpts{
		Name: "betweenlines_parse_dropped_lines_total",
		Help: "Non-empty input lines dropped during chat log parsing",
	})

	LLMRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "betweenlines_llm_request_duration_seconds",
		Help:    "Duration of remote classification requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "betweenlines_analysis_duration_seconds",
		Help:    "End-to-end duration of a single analysis",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30, 60},
	})
)

// Classifier path label values.
const (
	PathRemote    = "remote"
	PathHeuristic = "heuristic"
)

// StartLLMTimer times one remote call; stop it with ObserveDuration.
func StartLLMTimer(op string) *prometheus.Timer {
	return prometheus.NewTimer(LLMRequestDuration.WithLabelValues(op))
}
