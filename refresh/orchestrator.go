package refresh

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/sig-0/iq"

	"github.com/sig-0/fxvol/cache"
	"github.com/sig-0/fxvol/metrics"
)

var (
	errInvalidJob      = errors.New("invalid job")
	errInvalidInterval = errors.New("invalid interval")
)

// retryDelay is how soon a failed build is retried
const retryDelay = time.Second * 10

// Orchestrator is the rebuild scheduler for registered surface jobs
type Orchestrator struct {
	cache   cache.Cache
	logger  *slog.Logger
	metrics *metrics.Metrics

	registeredJobs sync.Map

	q             iq.Queue[scheduledBuild]
	queryInterval time.Duration
	qMux          sync.Mutex
}

// New creates a new Orchestrator instance
func New(cache cache.Cache, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		cache:         cache,
		q:             iq.NewQueue[scheduledBuild](),
		queryInterval: time.Second, // every second
	}

	// Apply the options
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Register registers a new job with the orchestrator.
// The job is immediately queued up for execution
func (o *Orchestrator) Register(j Job) error {
	if j == nil || j.Pair() == "" {
		return errInvalidJob
	}

	if j.Interval() <= 0 {
		return errInvalidInterval
	}

	// Register the job
	id := xid.New()
	o.registeredJobs.Store(id, j)

	o.logger.Info(
		"registered new surface job",
		"pair", j.Pair(),
	)

	// Schedule the build
	o.scheduleBuild(
		time.Now().UTC(),
		id,
		j,
	)

	return nil
}

// Start starts the surface rebuild service loop [BLOCKING]
func (o *Orchestrator) Start(ctx context.Context) error {
	collectorCh := make(chan *workerResponse, 100)

	// Start a listener for monitoring jobs
	ticker := time.NewTicker(o.queryInterval)
	defer ticker.Stop()

	// handleDue initializes all builds that are executable (due)
	handleDue := func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
				nextSB := o.nextBuild()
				if nextSB == nil {
					return // nothing to schedule anymore
				}

				o.logger.Info(
					"scheduling surface build",
					"pair", nextSB.job.Pair(),
				)

				// Spawn worker
				info := &workerInfo{
					job:   nextSB.job,
					jobID: nextSB.jobID,
					resCh: collectorCh,
				}

				go handleJob(ctx, info)
			}
		}
	}

	// Initialize the first set of due builds (on boot)
	handleDue()

	for {
		select {
		case <-ctx.Done():
			o.logger.Info("orchestrator service shut down")
			close(collectorCh)

			return nil
		case <-ticker.C:
			handleDue()
		case response := <-collectorCh:
			now := time.Now().UTC()

			rjRaw, ok := o.registeredJobs.Load(response.jobID)

			if !ok {
				o.logger.Error(
					"unable to load registered job",
					"id", response.jobID.String(),
				)

				continue
			}

			rj, _ := rjRaw.(Job)

			o.metrics.ObserveBuild(rj.Pair(), response.duration, response.error)

			// Save the built surface
			if response.error != nil {
				o.logger.Error(
					"error encountered during surface build",
					"id", response.jobID.String(),
					"pair", rj.Pair(),
					"err", response.error.Error(),
				)

				// Retry the build soon
				o.scheduleBuild(
					now.Add(retryDelay),
					response.jobID,
					rj,
				)

				continue
			}

			saveCtx, cancelFn := context.WithTimeout(ctx, time.Second*10)

			if err := o.cache.SaveSurface(saveCtx, response.surface); err != nil {
				o.logger.Error(
					"unable to save surface",
					"pair", response.surface.Pair,
					"err", err,
				)
			} else {
				o.logger.Info(
					"saved surface",
					"pair", response.surface.Pair,
					"overall_score", response.surface.Summary.OverallScore,
					"fetched_at", response.surface.FetchedAt.String(),
				)
			}

			cancelFn()

			// Schedule a new build for this job
			o.scheduleBuild(
				now.Add(rj.Interval()),
				response.jobID,
				rj,
			)
		}
	}
}

// scheduleBuild schedules a new surface rebuild
func (o *Orchestrator) scheduleBuild(
	at time.Time,
	jobID xid.ID,
	job Job,
) {
	o.qMux.Lock()
	defer o.qMux.Unlock()

	futureSB := scheduledBuild{
		at:    at,
		jobID: jobID,
		job:   job,
	}

	o.q.Push(futureSB)
}

// nextBuild fetches the next due build job, as of the moment of calling
func (o *Orchestrator) nextBuild() *scheduledBuild {
	o.qMux.Lock()
	defer o.qMux.Unlock()

	now := time.Now().UTC()

	// Check if anything needs to be scheduled
	if o.q.Len() == 0 {
		return nil // nothing to schedule, all builds are running
	}

	// Check if the top element is due
	if o.q.Index(0).at.After(now) {
		return nil // nothing to schedule, latest build is in the future
	}

	// Grab the next build
	nextSB := o.q.PopFront()

	return nextSB
}
