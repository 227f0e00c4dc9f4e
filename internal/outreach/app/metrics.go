package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "outreach",
			Name:      "sends_total",
			Help:      "Total individual send attempts by outcome.",
		},
		[]string{"phase", "outcome"}, // outcome: success, failure
	)
	batchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "outreach",
			Name:      "batches_total",
			Help:      "Total batch send operations by result.",
		},
		[]string{"result"}, // result: committed, all_failed, no_recipients
	)
	sweepAthletesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "outreach",
			Name:      "sweep_athletes_total",
			Help:      "Athletes visited per sweep by resulting state.",
		},
		[]string{"state"}, // no_schedule, waiting, due, exhausted, error
	)
	sweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "outreach",
			Name:      "sweep_duration_seconds",
			Help:      "Duration of a full drip sweep.",
			Buckets:   prometheus.DefBuckets,
		},
	)
)
