package worker

import "context"

// SnapshotRefresher recomputes and stores a learner's review snapshots.
// Declared here so the worker package does not import services.
type SnapshotRefresher interface {
	RefreshSnapshots(ctx context.Context, learnerID int64) (int, error)
}
