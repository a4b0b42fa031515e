package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_risk_http_requests_total",
			Help: "Total number of HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "loan_risk_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_risk_prediction_cache_lookups_total",
			Help: "Prediction cache lookups by result (L1, L2, hit, miss)",
		},
		[]string{"result"},
	)

	CacheWriteFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loan_risk_prediction_cache_write_failures_total",
			Help: "Prediction cache writes that failed",
		},
	)

	RateLimitRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loan_risk_rate_limit_rejections_total",
			Help: "Requests rejected by the per-client rate limiter",
		},
	)

	CategoryRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_risk_category_rejections_total",
			Help: "Applications rejected for an unrecognized categorical value",
		},
		[]string{"field"},
	)
)
