package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Store labels.
const (
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

var (
	StoreOperationDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Duration of user store operations by store, operation and result",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"store", "operation", "result"},
	)

	StoreOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operation_errors_total",
			Help:      "User store operations that failed for a reason other than not found or conflict",
		},
		[]string{"store", "operation", "kind"},
	)

	// StorePoolConnections is sampled from pgxpool stats for postgres and
	// maintained from pool events for mongo.
	StorePoolConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "store_pool_connections",
			Help:      "Connection pool size by store and state",
		},
		[]string{"store", "state"},
	)
)
