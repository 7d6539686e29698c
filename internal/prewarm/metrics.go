package prewarm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Runs counts prewarm task outcomes. Failures stay here and in the logs; they
// never reach the request path.
var Runs = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "vendas_prewarm_runs_total",
		Help: "Total number of month prewarm task runs by result",
	},
	[]string{"result"}, // "populated", "skipped", "failed"
)
