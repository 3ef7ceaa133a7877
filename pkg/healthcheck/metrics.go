// Package healthcheck metrics integration
// Provides Prometheus metrics for health check monitoring
package healthcheck

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mealforge",
		Subsystem: "healthcheck",
		Name:      "checks_total",
		Help:      "Total number of health checks by dependency and status",
	}, []string{"check", "status"})

	checkDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mealforge",
		Subsystem: "healthcheck",
		Name:      "check_duration_seconds",
		Help:      "Health check duration by dependency",
		Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
	}, []string{"check"})

	healthStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "mealforge",
		Subsystem: "healthcheck",
		Name:      "status",
		Help:      "Current health status (1 healthy, 0.5 degraded, 0 unhealthy)",
	}, []string{"check"})
)

func statusValue(s Status) float64 {
	switch s {
	case StatusHealthy:
		return 1
	case StatusDegraded:
		return 0.5
	default:
		return 0
	}
}

func recordCheck(c Check) {
	checksTotal.WithLabelValues(c.Name, string(c.Status)).Inc()
	checkDuration.WithLabelValues(c.Name).Observe(c.Duration.Seconds())
	healthStatus.WithLabelValues(c.Name).Set(statusValue(c.Status))
}

func recordOverall(s Status) {
	healthStatus.WithLabelValues("overall").Set(statusValue(s))
}
