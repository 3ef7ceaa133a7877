package ai

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Pinger is implemented by embedding backends that support a cheap
// reachability probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker reports the availability of the configured embedding
// provider for the health endpoint.
type HealthChecker struct {
	provider string
	pinger   Pinger
	timeout  time.Duration
	logger   *zap.Logger
}

// NewHealthChecker creates a health checker for the given provider
func NewHealthChecker(provider string, pinger Pinger, logger *zap.Logger) *HealthChecker {
	return &HealthChecker{
		provider: provider,
		pinger:   pinger,
		timeout:  5 * time.Second,
		logger:   logger.Named("ai-health"),
	}
}

// Ping probes the provider with a bounded timeout and returns any
// failure. It satisfies the health check pinger contract.
func (h *HealthChecker) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		h.logger.Warn("embedding provider health check failed",
			zap.String("provider", h.provider),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// Provider returns the configured provider name
func (h *HealthChecker) Provider() string {
	return h.provider
}
