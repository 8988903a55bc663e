package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"deliveryhub/models"
)

const namespace = "deliveryhub"

// Registry holds every collector exposed on /metrics.
var Registry = prometheus.NewRegistry()

var (
	analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insights_analyses_total",
			Help:      "Total number of insight analyses by source",
		},
		[]string{"source"},
	)

	analysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "insights_analysis_duration_seconds",
			Help:      "Time spent loading data and running an analysis",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	problemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insights_problems_detected_total",
			Help:      "Problems detected by type and severity",
		},
		[]string{"tipo", "gravidade"},
	)

	assistantCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assistant_calls_total",
			Help:      "Assistant calls by kind and status",
		},
		[]string{"kind", "status"},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insights_cache_lookups_total",
			Help:      "Insight cache lookups by result",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		analysesTotal,
		analysisDuration,
		problemsTotal,
		assistantCalls,
		cacheLookups,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// ObserveAnalysis records one finished analysis and the problems it found.
func ObserveAnalysis(source string, started time.Time, problems []models.Problem) {
	analysesTotal.WithLabelValues(source).Inc()
	analysisDuration.WithLabelValues(source).Observe(time.Since(started).Seconds())
	for _, p := range problems {
		problemsTotal.WithLabelValues(p.Tipo, string(p.Gravidade)).Inc()
	}
}

// ObserveAssistant records an assistant call outcome.
func ObserveAssistant(kind, status string) {
	assistantCalls.WithLabelValues(kind, status).Inc()
}

// ObserveCache records a cache hit or miss.
func ObserveCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
