// Package metrics holds the process-wide Prometheus instruments. promauto
// registers everything on the default registry at init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SearchesTotal counts search requests by effective mode.
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rhizome_searches_total",
			Help: "Total number of search requests processed",
		},
		[]string{"mode"},
	)

	// DocumentsIngested counts markdown documents upserted into the graph.
	DocumentsIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rhizome_documents_ingested_total",
			Help: "Total number of markdown documents ingested",
		},
	)

	// FlushesTotal counts persistence flush cycles by outcome.
	FlushesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rhizome_flushes_total",
			Help: "Total number of persistence flush cycles",
		},
		[]string{"status"},
	)

	// FlushDuration observes export+write time per flush cycle.
	FlushDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rhizome_flush_duration_seconds",
			Help:    "Duration of persistence flush cycles in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		},
	)
)
