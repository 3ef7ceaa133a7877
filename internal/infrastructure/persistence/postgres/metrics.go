// Package postgres provides database metrics and monitoring
package postgres

import (
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	poolOpenConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "mealforge",
		Subsystem: "db",
		Name:      "pool_open_connections",
		Help:      "Open connections in the database pool",
	})
	poolInUse = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "mealforge",
		Subsystem: "db",
		Name:      "pool_in_use_connections",
		Help:      "Connections currently in use",
	})
	poolIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "mealforge",
		Subsystem: "db",
		Name:      "pool_idle_connections",
		Help:      "Idle connections in the pool",
	})
	poolWaitCount = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "mealforge",
		Subsystem: "db",
		Name:      "pool_wait_count_total",
		Help:      "Total number of connections waited for",
	})
	poolWaitSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "mealforge",
		Subsystem: "db",
		Name:      "pool_wait_seconds_total",
		Help:      "Total time blocked waiting for a connection",
	})
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mealforge",
		Subsystem: "db",
		Name:      "queries_total",
		Help:      "Queries executed, partitioned by outcome",
	}, []string{"status"})
	slowQueriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mealforge",
		Subsystem: "db",
		Name:      "slow_queries_total",
		Help:      "Queries exceeding the slow query threshold",
	})
	queryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "mealforge",
		Subsystem: "db",
		Name:      "query_duration_seconds",
		Help:      "Query execution time",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	})
)

// RecordPoolStats exposes connection pool statistics as gauges.
func RecordPoolStats(stats sql.DBStats) {
	poolOpenConnections.Set(float64(stats.OpenConnections))
	poolInUse.Set(float64(stats.InUse))
	poolIdle.Set(float64(stats.Idle))
	poolWaitCount.Set(float64(stats.WaitCount))
	poolWaitSeconds.Set(stats.WaitDuration.Seconds())
}

// RecordQuery counts one executed query and observes its duration.
func RecordQuery(duration time.Duration, err error, slow bool) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	queriesTotal.WithLabelValues(status).Inc()
	queryDuration.Observe(duration.Seconds())
	if slow {
		slowQueriesTotal.Inc()
	}
}
