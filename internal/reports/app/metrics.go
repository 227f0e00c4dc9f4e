package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rollupsWrittenTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reports_rollups_total",
			Help: "Daily rollup attempts by result (written, exists, error).",
		},
		[]string{"result"},
	)
	reconciliationDiscrepancies = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reports_reconciliation_discrepancies",
			Help: "Discrepancy counts from the latest reconciliation run.",
		},
		[]string{"kind"},
	)
)
