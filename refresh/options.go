package refresh

import (
	"log/slog"
	"time"

	"github.com/sig-0/fxvol/metrics"
)

type Option func(o *Orchestrator)

// WithLogger specifies the logger for the orchestrator
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = l
	}
}

// WithMetrics specifies the build metrics sink for the orchestrator
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// WithQueryInterval specifies query interval for the orchestrator's jobs.
// Defaults to 1s.
// This should only be modified if the registered jobs have sparse runs
func WithQueryInterval(q time.Duration) Option {
	return func(o *Orchestrator) {
		o.queryInterval = q
	}
}
