package surface

import "log/slog"

// builderConfig collects the Builder construction parameters
type builderConfig struct {
	logger     *slog.Logger
	batchLimit int
}

type Option func(cfg *builderConfig)

// WithLogger specifies the logger for the builder
func WithLogger(l *slog.Logger) Option {
	return func(cfg *builderConfig) {
		cfg.logger = l
	}
}

// WithBatchLimit overrides the per-request security ceiling.
// Defaults to fetch.DefaultBatchLimit
func WithBatchLimit(limit int) Option {
	return func(cfg *builderConfig) {
		cfg.batchLimit = limit
	}
}
