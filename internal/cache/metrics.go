package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OpErrors tracks cache operation failures by operation. The cache is
// best-effort, so these never surface to callers as request errors.
var OpErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "vendas_cache_errors_total",
		Help: "Total number of cache operation errors",
	},
	[]string{"operation"}, // "get", "setex", "delete"
)
