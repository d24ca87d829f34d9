// Package metrics declares the Prometheus collectors for the conversion
// pipeline. Collectors register on the default registry; the router exposes
// them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RateFetchesTotal counts upstream rate API calls by operation and outcome.
	RateFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sheetrate_rate_fetches_total",
		Help: "Total rate API fetches",
	}, []string{"op", "outcome"})

	// RateFetchDuration tracks upstream rate API latency.
	RateFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sheetrate_rate_fetch_duration_seconds",
		Help:    "Rate API fetch latency",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"op"})

	// ConversionsTotal counts conversion workflow runs by outcome.
	ConversionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sheetrate_conversions_total",
		Help: "Total cell conversions",
	}, []string{"outcome"})
)
