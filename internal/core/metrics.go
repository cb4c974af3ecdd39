package core

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	importsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "netinventory_imports_total",
		Help: "Spreadsheet imports by region and outcome.",
	}, []string{"region", "status"})

	importedRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "netinventory_imported_rows_total",
		Help: "Records committed by imports, by region.",
	}, []string{"region"})

	importDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "netinventory_import_duration_seconds",
		Help:    "Time from slot acquisition to commit or rollback.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	})

	statsCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "netinventory_stats_cache_hits_total",
		Help: "Statistics requests served from cache.",
	})

	statsCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "netinventory_stats_cache_misses_total",
		Help: "Statistics requests computed from the database.",
	})
)
