package lifecycle

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeRecalculated = "recalculated"
	outcomeCleared      = "cleared"
	outcomeSkipped      = "skipped"
	outcomeError        = "error"
)

var (
	recalculations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "settlr_recalculations_total",
		Help: "Settlement recalculations by outcome.",
	}, []string{"outcome"})

	recalculationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "settlr_recalculation_duration_seconds",
		Help:    "Time spent recalculating settlements, including storage.",
		Buckets: prometheus.DefBuckets,
	})

	settlementsWritten = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "settlr_settlements_written",
		Help: "Unpaid settlements written by the most recent recalculation.",
	})
)
