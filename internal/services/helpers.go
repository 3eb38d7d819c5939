package services

import (
	"context"
	stderrors "errors"

	"github.com/vytor/recall/internal/errors"
	"github.com/vytor/recall/internal/jobs"
	"github.com/vytor/recall/internal/logger"
	"github.com/vytor/recall/internal/repository"
)

// storageError maps an exhausted write retry to 503 and anything else to 500.
func storageError(err error) *errors.AppError {
	if stderrors.Is(err, repository.ErrBusy) {
		return errors.NewUnavailableError("database is busy, try again", err)
	}
	return errors.NewInternalError(err)
}

// enqueueRefresh schedules a snapshot refresh. A full queue is not an
// error for the caller; the next refresh catches up.
func enqueueRefresh(ctx context.Context, q jobs.JobQueue, learnerID int64) {
	if q == nil {
		return
	}
	if err := q.EnqueueSnapshotRefresh(learnerID); err != nil {
		logger.FromContext(ctx).Warn("failed to enqueue snapshot refresh: learner_id=%d: %v", learnerID, err)
	}
}
