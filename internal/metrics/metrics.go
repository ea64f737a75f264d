// Package metrics holds the Prometheus collectors of the dashboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FetchPagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salesdash_fetch_pages_total",
		Help: "Dataset pages requested, by result",
	}, []string{"result"})

	FetchRowsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "salesdash_fetch_rows_total",
		Help: "Rows returned by dataset fetches",
	})

	FetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "salesdash_fetch_duration_seconds",
		Help:    "Duration of a complete dataset fetch",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	LoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salesdash_loads_total",
		Help: "Session data loads, by outcome",
	}, []string{"outcome"})

	DashboardBuildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salesdash_dashboard_builds_total",
		Help: "Dashboard renders, by outcome",
	}, []string{"outcome"})

	DashboardBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "salesdash_dashboard_build_duration_seconds",
		Help:    "Time spent filtering and aggregating one dashboard",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})
)
