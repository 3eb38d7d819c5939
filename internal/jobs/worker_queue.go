package jobs

import (
	"github.com/vytor/recall/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	pool      *worker.Pool
	refresher worker.SnapshotRefresher
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(pool *worker.Pool, refresher worker.SnapshotRefresher) JobQueue {
	return &WorkerQueue{
		pool:      pool,
		refresher: refresher,
	}
}

func (q *WorkerQueue) EnqueueSnapshotRefresh(learnerID int64) error {
	return q.pool.Submit(&worker.ReviewSnapshotJob{
		Refresher: q.refresher,
		LearnerID: learnerID,
	})
}
