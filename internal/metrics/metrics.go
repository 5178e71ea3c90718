// Package metrics holds the prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestTotal counts HTTP requests by method, route and status.
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "databasehub_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "databasehub_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// RateLimitHits counts requests rejected by the rate limiter.
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "databasehub_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"route"},
	)

	// CacheLookups counts AdventureWorks cache lookups; result is hit, miss or error.
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "databasehub_cache_lookups_total",
			Help: "AdventureWorks result cache lookups",
		},
		[]string{"query", "result"},
	)

	// AttemptsVerified counts verified catalog attempts; result is passed or failed.
	AttemptsVerified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "databasehub_attempts_verified_total",
			Help: "Catalog attempts verified in the sandbox",
		},
		[]string{"problem", "result"},
	)

	VerificationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "databasehub_verification_duration_seconds",
			Help:    "Time to verify one problem",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)
)
