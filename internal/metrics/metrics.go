package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	catalogRefresh = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "routine2cal",
			Name:      "catalog_refresh_total",
			Help:      "Count of catalog feed refreshes by outcome.",
		},
		[]string{"outcome"},
	)

	selectionOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "routine2cal",
			Name:      "selection_ops_total",
			Help:      "Count of selection store operations by op.",
		},
		[]string{"op"},
	)

	exports = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "routine2cal",
			Name:      "exports_total",
			Help:      "Count of schedule exports by format.",
		},
		[]string{"format"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(catalogRefresh, selectionOps, exports)
	})
}

func IncCatalogRefresh(outcome string) {
	catalogRefresh.WithLabelValues(outcome).Inc()
}

func IncSelectionOp(op string) {
	selectionOps.WithLabelValues(op).Inc()
}

func IncExport(format string) {
	exports.WithLabelValues(format).Inc()
}
