package git

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	syncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gitvault",
		Subsystem: "sync",
		Name:      "runs_total",
		Help:      "Synchronization runs by terminal outcome.",
	}, []string{"outcome"})

	syncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gitvault",
		Subsystem: "sync",
		Name:      "run_duration_seconds",
		Help:      "Wall time of synchronization runs.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	})
)
