package metrics

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "docsum"

var (
	// IngestOutcomes counts upload sagas by outcome (committed, compensated, failed).
	IngestOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "ingest_outcomes_total", Help: "Document uploads by saga outcome."},
		[]string{"outcome"},
	)
	// OrphanedBlobs counts blobs left behind by a failed compensating or best-effort delete.
	OrphanedBlobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "orphaned_blobs_total", Help: "Blobs that could not be removed and await reconciliation."},
		[]string{"operation"},
	)
	// SummariesGenerated counts persisted summaries by source (ai, extractive).
	SummariesGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "summaries_generated_total", Help: "Summaries persisted by source."},
		[]string{"source"},
	)
	// SummaryFailures counts failed summary generations by reason.
	SummaryFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "summary_failures_total", Help: "Failed summary generations by reason."},
		[]string{"reason"},
	)
	// SummaryDuration observes end-to-end summary generation latency.
	SummaryDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "summary_duration_seconds",
		Help:      "Summary generation duration in seconds.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	})
	// RateLimited counts requests rejected by the HTTP rate limiter.
	RateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limited_total", Help: "Requests rejected by the rate limiter by group."},
		[]string{"group"},
	)
)

// Register adds all collectors to reg. A collector may be registered with several registries.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		IngestOutcomes,
		OrphanedBlobs,
		SummariesGenerated,
		SummaryFailures,
		SummaryDuration,
		RateLimited,
	)
}

// Handler exposes the registry in Prometheus text format.
func Handler(reg *prometheus.Registry) gin.HandlerFunc {
	h := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		if reg == nil {
			c.Status(http.StatusNotFound)
			return
		}
		h.ServeHTTP(c.Writer, c.Request)
	}
}
