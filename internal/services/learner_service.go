package services

import (
	"context"

	"github.com/vytor/recall/internal/errors"
	"github.com/vytor/recall/internal/jobs"
	"github.com/vytor/recall/internal/logger"
	"github.com/vytor/recall/internal/models"
	"github.com/vytor/recall/internal/repository"
)

// LearnerService handles learner-related business logic
type LearnerService interface {
	CreateLearner(ctx context.Context, username string) (*models.Learner, error)
	GetLearner(ctx context.Context, id int64) (*models.Learner, error)
	CompleteChapters(ctx context.Context, id int64, count int) (*models.Learner, error)
}

type learnerService struct {
	learnerRepo repository.LearnerRepository
	jobQueue    jobs.JobQueue
}

// NewLearnerService creates a new LearnerService. jobQueue may be nil.
func NewLearnerService(learnerRepo repository.LearnerRepository, jobQueue jobs.JobQueue) LearnerService {
	return &learnerService{learnerRepo: learnerRepo, jobQueue: jobQueue}
}

func (s *learnerService) CreateLearner(ctx context.Context, username string) (*models.Learner, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating learner: username=%s", username)

	if username == "" {
		return nil, errors.NewValidationError("username", "cannot be empty")
	}

	learner, err := s.learnerRepo.Upsert(ctx, username)
	if err != nil {
		log.Error("failed to create learner: %v", err)
		return nil, storageError(err)
	}

	return learner, nil
}

func (s *learnerService) GetLearner(ctx context.Context, id int64) (*models.Learner, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting learner: id=%d", id)

	learner, err := s.learnerRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get learner: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if learner == nil {
		return nil, errors.NewNotFoundError("learner", id)
	}

	return learner, nil
}

// CompleteChapters advances the learner's chapter counter. Every mastery
// of the learner gains interference, so the stored snapshots are refreshed
// in the background.
func (s *learnerService) CompleteChapters(ctx context.Context, id int64, count int) (*models.Learner, error) {
	log := logger.FromContext(ctx)
	log.Debug("completing chapters: learner_id=%d, count=%d", id, count)

	if count < 1 {
		return nil, errors.NewValidationError("count", "must be at least 1")
	}

	learner, err := s.learnerRepo.AddChapters(ctx, id, count)
	if err != nil {
		log.Error("failed to complete chapters: %v", err)
		return nil, storageError(err)
	}
	if learner == nil {
		return nil, errors.NewNotFoundError("learner", id)
	}

	enqueueRefresh(ctx, s.jobQueue, learner.ID)
	return learner, nil
}
