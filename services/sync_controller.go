package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fenilmodi00/lotto-backend/models"
	"github.com/fenilmodi00/lotto-backend/shared"
	"github.com/sirupsen/logrus"
)

// HistorySource returns draws with a contest number greater than since, newest
// first. since == 0 asks for the most recent default window.
type HistorySource interface {
	FetchHistory(ctx context.Context, since int) ([]models.Draw, error)
}

// SyncController brings the archive up to date with a HistorySource.
// At most one Sync runs at a time; overlapping calls return immediately.
type SyncController struct {
	archive *DrawArchive
	source  HistorySource
	retry   *shared.RetryPolicy
	window  int

	inProgress atomic.Bool

	stateMu    sync.RWMutex
	lastSyncAt *time.Time
	lastError  string

	metrics *shared.ServiceMetrics
	logger  *logrus.Entry
}

// NewSyncController wires an archive to a source. A nil policy uses the default retry policy.
func NewSyncController(archive *DrawArchive, source HistorySource, retry *shared.RetryPolicy) *SyncController {
	if retry == nil {
		retry = shared.NewDefaultRetryPolicy("FetchHistory")
	}
	return &SyncController{
		archive: archive,
		source:  source,
		retry:   retry,
		window:  models.DefaultHistoryWindow,
		metrics: shared.NewServiceMetrics("sync-controller"),
		logger:  logrus.WithField("component", "SyncController"),
	}
}

// WithDefaultWindow changes how many draws are kept when the archive is empty
func (c *SyncController) WithDefaultWindow(window int) *SyncController {
	if window > 0 {
		c.window = window
	}
	return c
}

// Sync fetches draws newer than the archive's latest contest and merges them.
// A report with FetchedCount 0 and a nil error means the archive was already current.
// Invalid records are counted in RejectedCount and skipped; any other failure is
// returned with the archive left at its last good state.
func (c *SyncController) Sync(ctx context.Context) (models.SyncReport, error) {
	if !c.inProgress.CompareAndSwap(false, true) {
		c.metrics.AddCustomCounter("skipped_syncs", 1)
		c.logger.Debug("Sync already in progress, skipping")
		return models.SyncReport{Skipped: true, LatestSequenceNumber: c.archive.LatestSequenceNumber()}, nil
	}
	defer c.inProgress.Store(false)

	startTime := time.Now()
	since := c.archive.LatestSequenceNumber()
	report := models.SyncReport{LatestSequenceNumber: since}

	logger := c.logger.WithField("since", since)
	logger.Info("Starting archive sync")

	fetched, err := shared.Execute(ctx, c.retry, func(ctx context.Context) ([]models.Draw, error) {
		return c.source.FetchHistory(ctx, since)
	})
	if err != nil {
		return c.finish(report, startTime, err)
	}

	valid, rejected := c.filterFetched(fetched, since)
	report.RejectedCount = rejected

	if len(valid) == 0 {
		logger.WithField("rejected", rejected).Info("Archive already up to date")
		return c.finish(report, startTime, nil)
	}

	if err := ctx.Err(); err != nil {
		return c.finish(report, startTime, err)
	}

	if err := c.archive.MergeUpsert(ctx, valid); err != nil {
		return c.finish(report, startTime, err)
	}

	report.FetchedCount = len(valid)
	report.LatestSequenceNumber = c.archive.LatestSequenceNumber()
	c.metrics.AddCustomCounter("draws_fetched", int64(len(valid)))
	return c.finish(report, startTime, nil)
}

// filterFetched drops malformed and stale records. Duplicates are left to the
// archive, which keeps the last one.
func (c *SyncController) filterFetched(fetched []models.Draw, since int) ([]models.Draw, int) {
	valid := make([]models.Draw, 0, len(fetched))
	rejected := 0
	stale := 0

	for _, draw := range fetched {
		if err := draw.Validate(); err != nil {
			rejected++
			c.logger.WithError(err).WithField("concourse", draw.SequenceNumber).Warn("Rejected malformed draw")
			continue
		}
		if draw.SequenceNumber <= since {
			stale++
			continue
		}
		valid = append(valid, draw.Normalized())
	}

	if since == 0 && len(valid) > c.window {
		valid = newestN(valid, c.window)
	}

	if stale > 0 {
		c.logger.WithField("stale", stale).Debug("Dropped draws already archived")
	}
	if rejected > 0 {
		c.metrics.AddCustomCounter("draws_rejected", int64(rejected))
	}
	return valid, rejected
}

func (c *SyncController) finish(report models.SyncReport, startTime time.Time, err error) (models.SyncReport, error) {
	report.Duration = time.Since(startTime)
	c.metrics.RecordRequest(err == nil, report.Duration)

	// A cancelled run leaves the recorded state as it was
	if !isCancellation(err) {
		now := time.Now()
		c.stateMu.Lock()
		c.lastSyncAt = &now
		if err != nil {
			c.lastError = err.Error()
		} else {
			c.lastError = ""
		}
		c.stateMu.Unlock()
	}

	fields := logrus.Fields{
		"fetched":  report.FetchedCount,
		"rejected": report.RejectedCount,
		"latest":   report.LatestSequenceNumber,
		"duration": report.Duration,
	}
	if err != nil {
		c.logger.WithFields(fields).WithError(err).WithField("category", shared.CategoryOf(err)).Error("Archive sync failed")
		return report, err
	}
	c.logger.WithFields(fields).Info("Archive sync completed")
	return report, nil
}

// State reports the latest archived contest and whether a sync is running
func (c *SyncController) State() models.SyncState {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()

	state := models.SyncState{
		LastKnownSequenceNumber: c.archive.LatestSequenceNumber(),
		InProgress:              c.inProgress.Load(),
		LastError:               c.lastError,
	}
	if c.lastSyncAt != nil {
		at := *c.lastSyncAt
		state.LastSyncAt = &at
	}
	return state
}

// LatestArchivedSequenceNumber is the highest contest in the archive, or 0
func (c *SyncController) LatestArchivedSequenceNumber() int {
	return c.archive.LatestSequenceNumber()
}

// Stats exposes the controller's run metrics
func (c *SyncController) Stats() shared.MetricsSnapshot {
	return c.metrics.GetSnapshot()
}

// LogSummary writes the controller's metrics to the log
func (c *SyncController) LogSummary() {
	c.metrics.LogSummary()
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func newestN(draws []models.Draw, n int) []models.Draw {
	sorted := mergeDraws(nil, draws)
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// UnconfiguredSource is used when neither a generation service nor a results
// page is configured. Every fetch fails permanently.
type UnconfiguredSource struct{}

func (UnconfiguredSource) FetchHistory(ctx context.Context, since int) ([]models.Draw, error) {
	return nil, shared.NewPermanentRemoteError("HistorySource", "FetchHistory", "no history source configured", nil)
}
