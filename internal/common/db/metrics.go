package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/user-profile/internal/common/constants"
	"github.com/AlibekovAA/user-profile/internal/observability/metrics"
)

type poolStats interface {
	AcquiredConns() int32
	IdleConns() int32
	MaxConns() int32
	TotalConns() int32
}

func recordPoolStats(stats poolStats) {
	g := metrics.StorePoolConnections
	g.WithLabelValues(metrics.StorePostgres, "acquired").Set(float64(stats.AcquiredConns()))
	g.WithLabelValues(metrics.StorePostgres, "idle").Set(float64(stats.IdleConns()))
	g.WithLabelValues(metrics.StorePostgres, "max").Set(float64(stats.MaxConns()))
	g.WithLabelValues(metrics.StorePostgres, "total").Set(float64(stats.TotalConns()))
}

// StartPoolMetrics samples pool stats until ctx is done.
func StartPoolMetrics(ctx context.Context, pool *pgxpool.Pool, interval time.Duration) {
	if interval <= 0 {
		interval = constants.DBPoolMetricsInterval
	}

	recordPoolStats(pool.Stat())

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				recordPoolStats(pool.Stat())
			}
		}
	}()
}
