package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/refera/fiish/internal/modules/snapshot"
)

// SnapshotRefreshJob discards the cached dataset and immediately re-primes
// it, so the first morning request never pays the load.
type SnapshotRefreshJob struct {
	snapshots *snapshot.Service
	timeout   time.Duration
	log       zerolog.Logger
}

// NewSnapshotRefreshJob creates the daily refresh job.
func NewSnapshotRefreshJob(snapshots *snapshot.Service, log zerolog.Logger) *SnapshotRefreshJob {
	return &SnapshotRefreshJob{
		snapshots: snapshots,
		timeout:   5 * time.Minute,
		log:       log.With().Str("job", "snapshot-refresh").Logger(),
	}
}

// Name implements Job.
func (j *SnapshotRefreshJob) Name() string {
	return "snapshot-refresh"
}

// Run implements Job.
func (j *SnapshotRefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	j.snapshots.Invalidate()

	snap, err := j.snapshots.Current(ctx)
	if err != nil {
		return err
	}

	j.log.Info().
		Str("reference_date", snap.ReferenceDate).
		Int("funds", snap.Len()).
		Msg("Snapshot refreshed")
	return nil
}
