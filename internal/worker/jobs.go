package worker

import (
	"context"

	"github.com/vytor/recall/internal/logger"
)

// ReviewSnapshotJob recomputes every mastery's decayed score and urgency
// for one learner and persists the result.
type ReviewSnapshotJob struct {
	Refresher SnapshotRefresher
	LearnerID int64
}

func (j *ReviewSnapshotJob) Name() string { return "review_snapshot" }

func (j *ReviewSnapshotJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("learner_id", j.LearnerID)
	log.Debug("refreshing review snapshots")

	n, err := j.Refresher.RefreshSnapshots(ctx, j.LearnerID)
	if err != nil {
		return err
	}
	log.Info("stored %d review snapshots", n)
	return nil
}
