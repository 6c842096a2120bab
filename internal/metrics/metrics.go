package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	DecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_decisions_total",
			Help: "Credit decisions appended, by outcome and trigger",
		},
		[]string{"outcome", "trigger"}, // approved|rejected , api|listing|seed|worker
	)

	MLRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_ml_requests_total",
			Help: "Calls to the ML service by endpoint and result",
		},
		[]string{"endpoint", "result"}, // score|centralities|forecast|macro , ok|error|circuit_open
	)

	GraphEnrichmentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_graph_enrichment_total",
			Help: "Network graph centrality enrichment outcomes",
		},
		[]string{"result"}, // ok|degraded|skipped
	)

	MacroCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_macro_cache_total",
			Help: "Macro series cache lookups",
		},
		[]string{"result"}, // hit|miss|error
	)

	WorkerMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_worker_messages_total",
			Help: "Decision request messages handled by the worker",
		},
		[]string{"result"}, // decided|failed|poison
	)

	registerOnce sync.Once
)

// MustRegister registers all collectors once; later calls are no-ops so the
// server and worker can share a process in tests.
func MustRegister(r prometheus.Registerer) {
	registerOnce.Do(func() {
		r.MustRegister(
			DecisionsTotal,
			MLRequestsTotal,
			GraphEnrichmentTotal,
			MacroCacheTotal,
			WorkerMessagesTotal,
		)
	})
}
