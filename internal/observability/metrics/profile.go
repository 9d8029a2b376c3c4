package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProfileReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "profile",
			Name:      "reads_total",
			Help:      "Total number of profile reads by result",
		},
		[]string{"result"},
	)

	ProfileUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "profile",
			Name:      "updates_total",
			Help:      "Total number of profile updates by result",
		},
		[]string{"result"},
	)

	EmailConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "profile",
			Name:      "email_conflicts_total",
			Help:      "Total number of email uniqueness conflicts by detection stage",
		},
		[]string{"stage"},
	)
)
