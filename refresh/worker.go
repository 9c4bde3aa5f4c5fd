package refresh

import (
	"context"
	"time"

	"github.com/rs/xid"

	"github.com/sig-0/fxvol/surface/types"
)

// scheduledBuild is a single scheduled surface rebuild
type scheduledBuild struct {
	at    time.Time
	job   Job
	jobID xid.ID
}

// Less is utilized to sort scheduled builds by their due-time (latest == first)
func (a scheduledBuild) Less(b scheduledBuild) bool {
	return a.at.Before(b.at)
}

// workerInfo is the work context for the build routine
type workerInfo struct {
	job   Job
	resCh chan<- *workerResponse
	jobID xid.ID
}

// workerResponse is the build routine response
type workerResponse struct {
	error    error          // encountered error, if any
	surface  *types.Surface // the built surface
	jobID    xid.ID         // the job ID
	duration time.Duration  // how long the build took
}

// handleJob runs one surface build for the job
func handleJob(
	ctx context.Context,
	info *workerInfo,
) {
	start := time.Now()

	built, err := info.job.Build(ctx)

	response := &workerResponse{
		error:    err,
		surface:  built,
		jobID:    info.jobID,
		duration: time.Since(start),
	}

	select {
	case <-ctx.Done():
	case info.resCh <- response:
	}
}
