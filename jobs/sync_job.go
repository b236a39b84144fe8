package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/fenilmodi00/lotto-backend/models"
	"github.com/fenilmodi00/lotto-backend/shared"
	"github.com/sirupsen/logrus"
)

// Syncer is the part of the sync controller the job drives
type Syncer interface {
	Sync(ctx context.Context) (models.SyncReport, error)
}

// SyncJob runs archive synchronization on a fixed interval
type SyncJob struct {
	syncer     Syncer
	interval   time.Duration
	runTimeout time.Duration
	logger     *logrus.Entry
	wg         sync.WaitGroup
}

// NewSyncJob creates a job that syncs every interval
func NewSyncJob(syncer Syncer, interval time.Duration) *SyncJob {
	return &SyncJob{
		syncer:     syncer,
		interval:   interval,
		runTimeout: 5 * time.Minute,
		logger:     logrus.WithField("component", "SyncJob"),
	}
}

// Run executes a single sync bounded by the job's run timeout
func (j *SyncJob) Run(ctx context.Context) (models.SyncReport, error) {
	runCtx, cancel := context.WithTimeout(ctx, j.runTimeout)
	defer cancel()

	report, err := j.syncer.Sync(runCtx)
	if err != nil {
		j.logger.WithError(err).WithField("category", shared.CategoryOf(err)).Error("Scheduled sync failed")
		return report, err
	}

	switch {
	case report.Skipped:
		j.logger.Debug("Scheduled sync skipped, another sync is running")
	case report.FetchedCount == 0:
		j.logger.WithField("latest", report.LatestSequenceNumber).Info("Archive already up to date")
	default:
		j.logger.WithFields(logrus.Fields{
			"fetched":  report.FetchedCount,
			"rejected": report.RejectedCount,
			"latest":   report.LatestSequenceNumber,
			"duration": report.Duration,
		}).Info("Scheduled sync merged new draws")
	}
	return report, nil
}

// Start runs the job in the background until ctx is done. With runOnStartup
// the first sync happens immediately instead of after one interval.
func (j *SyncJob) Start(ctx context.Context, runOnStartup bool) {
	j.logger.WithField("interval", j.interval).Info("Starting periodic archive sync")

	j.wg.Add(1)
	go func() {
		defer j.wg.Done()

		if runOnStartup {
			j.Run(ctx)
		}

		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				j.logger.Info("Periodic archive sync stopped")
				return
			case <-ticker.C:
				j.Run(ctx)
			}
		}
	}()
}

// Wait blocks until a started job has stopped
func (j *SyncJob) Wait() {
	j.wg.Wait()
}
