package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insight_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "insight_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	TurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insight_turns_total",
		Help: "Total chat turns processed",
	}, []string{"outcome"})

	TurnsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "insight_turns_active",
		Help: "Number of chat turns currently streaming",
	})

	TurnIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "insight_turn_iterations",
		Help:    "Reasoning-model calls per turn",
		Buckets: []float64{1, 2, 3, 4, 5, 6, 8, 10},
	})

	ModelRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insight_model_requests_total",
		Help: "Total reasoning model requests",
	}, []string{"model", "status"})

	ModelRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "insight_model_request_duration_seconds",
		Help:    "Reasoning model request duration",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"model"})

	ModelTokensTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insight_model_tokens_total",
		Help: "Tokens consumed by reasoning model requests",
	}, []string{"kind"})

	CapabilityCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "insight_capability_calls_total",
		Help: "Total capability executions",
	}, []string{"capability", "status"})

	CapabilityDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "insight_capability_duration_seconds",
		Help:    "Capability execution duration",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"capability"})

	WarehouseQueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "insight_warehouse_query_duration_seconds",
		Help:    "Warehouse query duration",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
	})

	KnowledgeSearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "insight_knowledge_search_duration_seconds",
		Help:    "Knowledge base search duration",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
	})
)
