package report

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits counts window queries served verbatim from the cache.
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vendas_report_cache_hits_total",
			Help: "Total number of report cache hits",
		},
	)

	// CacheMisses counts window queries that went to the database, by reason.
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vendas_report_cache_misses_total",
			Help: "Total number of report cache misses",
		},
		[]string{"reason"}, // "absent", "error", "decode"
	)
)
