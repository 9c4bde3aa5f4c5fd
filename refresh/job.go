package refresh

import (
	"context"
	"time"

	"github.com/sig-0/fxvol/surface"
	"github.com/sig-0/fxvol/surface/types"
)

// Job is a single scheduled surface rebuild
type Job interface {
	// Pair returns the currency pair the job builds surfaces for
	Pair() string

	// Interval returns the interval at which the surface should be rebuilt
	Interval() time.Duration

	// Build runs one full surface build
	Build(context.Context) (*types.Surface, error)
}

// SurfaceJob is the standard Job implementation, wrapping a surface builder
type SurfaceJob struct {
	builder  *surface.Builder
	pair     string
	tenors   []types.Tenor
	interval time.Duration
}

// NewSurfaceJob creates a rebuild job for the given pair and tenor curve
func NewSurfaceJob(
	builder *surface.Builder,
	pair string,
	tenors []types.Tenor,
	interval time.Duration,
) *SurfaceJob {
	return &SurfaceJob{
		builder:  builder,
		pair:     pair,
		tenors:   tenors,
		interval: interval,
	}
}

func (j *SurfaceJob) Pair() string {
	return j.pair
}

func (j *SurfaceJob) Interval() time.Duration {
	return j.interval
}

func (j *SurfaceJob) Build(ctx context.Context) (*types.Surface, error) {
	return j.builder.Build(ctx, j.pair, j.tenors)
}
