package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Janitor evicts expired jobs on a fixed schedule, independent of request
// handling.
type Janitor struct {
	registry *Registry
	interval time.Duration
	logger   *zap.Logger
}

// NewJanitor creates a janitor that sweeps the registry every interval.
func NewJanitor(registry *Registry, interval time.Duration, logger *zap.Logger) *Janitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Janitor{registry: registry, interval: interval, logger: logger}
}

// Run sweeps until ctx is cancelled.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			j.logger.Info("job janitor stopping")
			return
		case now := <-ticker.C:
			j.registry.EvictExpired(now)
		}
	}
}
