package exec

import "github.com/prometheus/client_golang/prometheus"

// Metrics carries the Prometheus vectors both executors report to,
// following the same package-level-vectors-with-label-dimensions shape
// the teacher uses for its own reindexing metrics.
var (
	SearchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pix",
		Subsystem: "exec",
		Name:      "search_duration_seconds",
		Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
	}, []string{"executor"})

	ProbeFanout = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pix",
		Subsystem: "exec",
		Name:      "probe_fanout_total",
	}, []string{"executor"})

	Cancellations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pix",
		Subsystem: "exec",
		Name:      "cancellations_total",
	}, []string{"executor"})
)
