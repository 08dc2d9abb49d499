// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by method, path, and status code.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grompt_requests_total",
		Help: "Total HTTP requests processed.",
	}, []string{"method", "path", "status"})

	// RephraseDuration tracks completion latency per model.
	RephraseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "grompt_rephrase_duration_seconds",
		Help:    "Time spent waiting on the completion endpoint.",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
	}, []string{"model"})

	// RephraseFailures counts failed rephrase calls by error kind.
	RephraseFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grompt_rephrase_failures_total",
		Help: "Failed rephrase calls by kind.",
	}, []string{"kind"})

	// InputChars tracks the distribution of prompt lengths.
	InputChars = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "grompt_input_chars",
		Help:    "Number of characters in the submitted prompt.",
		Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
	})

	// RateLimited counts requests rejected by the rate limiter.
	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "grompt_rate_limited_total",
		Help: "Requests rejected with 429.",
	})
)
