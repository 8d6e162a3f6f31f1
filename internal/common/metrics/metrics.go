// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attrition_predictions_total",
			Help: "Total number of attrition predictions served, by risk tier",
		},
		[]string{"tier"},
	)

	NormalizeFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attrition_normalize_failures_total",
			Help: "Total number of records rejected during normalization",
		},
		[]string{"error_code"},
	)

	EngagementRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attrition_engagement_requests_total",
			Help: "Total number of LLM engagement calls, by operation and status",
		},
		[]string{"operation", "status"},
	)

	EngagementDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "attrition_engagement_duration_seconds",
			Help: "Duration of LLM engagement calls in seconds",
		},
		[]string{"operation"},
	)
)
