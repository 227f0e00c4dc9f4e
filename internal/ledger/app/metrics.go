package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	webhooksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "webhooks_total",
			Help:      "Payment webhook deliveries by result.",
		},
		[]string{"result"}, // applied, duplicate, ignored, invalid_signature, malformed, error
	)
	webhookDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ledger",
			Name:      "webhook_duration_seconds",
			Help:      "Duration of payment webhook processing.",
			Buckets:   prometheus.DefBuckets,
		},
	)
)
