// Package metrics holds the Prometheus collectors for the practice engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Graded answers by problem type and outcome (correct/incorrect).
	AnswersGraded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mathpath_answers_graded_total",
			Help: "Total number of graded answers",
		},
		[]string{"type", "outcome"},
	)

	// Lessons completed by lesson id.
	LessonsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mathpath_lessons_completed_total",
			Help: "Total number of completed lessons",
		},
		[]string{"lesson"},
	)

	// Diagnostic placements by resulting path.
	Placements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mathpath_diagnostic_placements_total",
			Help: "Learners placed on a difficulty path by the diagnostic lesson",
		},
		[]string{"path"},
	)

	// Generation requests by kind (variation/challenge/illustration/explain/chat) and status.
	Generations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mathpath_generation_requests_total",
			Help: "Total number of content generation requests",
		},
		[]string{"kind", "status"},
	)

	// LLM round-trip latency by purpose and status.
	LLMDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mathpath_llm_request_duration_seconds",
			Help:    "Time spent waiting for LLM providers",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"purpose", "status"},
	)

	// LLM tokens by purpose and direction (input/output).
	LLMTokens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mathpath_llm_tokens_total",
			Help: "Tokens sent to and received from LLM providers",
		},
		[]string{"purpose", "direction"},
	)

	// Estimated LLM spend by purpose, priced from the model's list price.
	LLMCost = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mathpath_llm_cost_usd_total",
			Help: "Estimated USD spent on LLM requests",
		},
		[]string{"purpose"},
	)

	// Store operations by backend (sqlite/redis), op and status.
	StoreOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mathpath_store_operations_total",
			Help: "Total number of persistence operations",
		},
		[]string{"backend", "op", "status"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mathpath_active_sessions_current",
			Help: "Lessons currently in progress",
		},
	)
)

// Status maps an error to the status label value.
func Status(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// Outcome maps a grading result to the outcome label value.
func Outcome(correct bool) string {
	if correct {
		return "correct"
	}
	return "incorrect"
}

// ObserveLLM records one LLM call that started at start.
func ObserveLLM(purpose string, start time.Time, err error) {
	if purpose == "" {
		purpose = "unknown"
	}
	LLMDuration.WithLabelValues(purpose, Status(err)).Observe(time.Since(start).Seconds())
}

// ObserveLLMUsage records the tokens and estimated cost of one LLM call.
func ObserveLLMUsage(purpose string, inputTokens, outputTokens int, costUSD float64) {
	if purpose == "" {
		purpose = "unknown"
	}
	LLMTokens.WithLabelValues(purpose, "input").Add(float64(inputTokens))
	LLMTokens.WithLabelValues(purpose, "output").Add(float64(outputTokens))
	if costUSD > 0 {
		LLMCost.WithLabelValues(purpose).Add(costUSD)
	}
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// NewServer returns an HTTP server exposing /metrics on addr.
func NewServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
