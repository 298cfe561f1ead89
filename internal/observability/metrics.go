package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "courserag_queries_total",
		Help: "Total number of user queries processed",
	}, []string{"status"})

	queryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "courserag_query_duration_seconds",
		Help:    "End-to-end query latency in seconds",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
	})

	modelCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "courserag_model_calls_total",
		Help: "Total number of model API calls",
	}, []string{"status"})

	toolExecutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "courserag_tool_executions_total",
		Help: "Total number of tool executions",
	}, []string{"tool", "status"})

	coursesIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "courserag_courses_ingested_total",
		Help: "Total number of course documents ingested",
	})

	chunksIndexed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "courserag_chunks_indexed_total",
		Help: "Total number of content chunks indexed",
	})
)

// RecordQuery records one completed query with its outcome and latency.
func RecordQuery(start time.Time, success bool) {
	queriesTotal.WithLabelValues(statusLabel(success)).Inc()
	queryDuration.Observe(time.Since(start).Seconds())
}

// RecordModelCall records the outcome of a model API call.
func RecordModelCall(success bool) {
	modelCallsTotal.WithLabelValues(statusLabel(success)).Inc()
}

// RecordToolExecution records a single tool invocation.
func RecordToolExecution(tool string, success bool) {
	toolExecutionsTotal.WithLabelValues(tool, statusLabel(success)).Inc()
}

// RecordIngest records one ingested course and its chunk count.
func RecordIngest(chunks int) {
	coursesIngested.Inc()
	chunksIndexed.Add(float64(chunks))
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
