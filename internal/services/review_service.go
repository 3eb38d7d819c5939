package services

import (
	"context"
	"sort"

	"github.com/vytor/recall/internal/decay"
	"github.com/vytor/recall/internal/errors"
	"github.com/vytor/recall/internal/logger"
	"github.com/vytor/recall/internal/models"
	"github.com/vytor/recall/internal/repository"
)

const (
	DefaultTimelineDays = 30
	MaxTimelineDays     = 365
)

// ReviewService builds review queues and decay timelines for a learner.
type ReviewService interface {
	ReviewQueue(ctx context.Context, learnerID int64, urgency decay.Urgency, limit int) ([]models.MasteryReview, error)
	Timeline(ctx context.Context, learnerID int64, days int) ([]decay.TimelinePoint, error)
	RefreshSnapshots(ctx context.Context, learnerID int64) (int, error)
	Snapshots(ctx context.Context, learnerID int64, urgency decay.Urgency) ([]models.ReviewSnapshot, error)
}

type reviewService struct {
	masteryRepo  repository.MasteryRepository
	learnerRepo  repository.LearnerRepository
	snapshotRepo repository.ReviewSnapshotRepository
	engine       *decay.Engine
	defaultLimit int
}

// NewReviewService creates a new ReviewService. defaultLimit caps the queue
// when the caller passes no limit.
func NewReviewService(
	masteryRepo repository.MasteryRepository,
	learnerRepo repository.LearnerRepository,
	snapshotRepo repository.ReviewSnapshotRepository,
	engine *decay.Engine,
	defaultLimit int,
) ReviewService {
	return &reviewService{
		masteryRepo:  masteryRepo,
		learnerRepo:  learnerRepo,
		snapshotRepo: snapshotRepo,
		engine:       engine,
		defaultLimit: defaultLimit,
	}
}

func (s *reviewService) learner(ctx context.Context, id int64) (*models.Learner, error) {
	learner, err := s.learnerRepo.Get(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get learner: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if learner == nil {
		return nil, errors.NewNotFoundError("learner", id)
	}
	return learner, nil
}

// evaluate scores every mastery of the learner. Rows that fail validation
// are logged and left out.
func (s *reviewService) evaluate(ctx context.Context, learner *models.Learner) ([]models.MasteryReview, error) {
	log := logger.FromContext(ctx)

	masteries, err := s.masteryRepo.List(ctx, models.MasteryFilter{LearnerID: learner.ID})
	if err != nil {
		log.Error("failed to list masteries: %v", err)
		return nil, errors.NewInternalError(err)
	}

	reviews := make([]models.MasteryReview, 0, len(masteries))
	for _, m := range masteries {
		timing, err := s.engine.SuggestReviewTiming(m.Record(), learner.ChaptersCompleted)
		if err != nil {
			log.Warn("skipping mastery %d: %v", m.ID, err)
			continue
		}
		reviews = append(reviews, models.MasteryReview{Mastery: m, ReviewTiming: timing})
	}
	return reviews, nil
}

// ReviewQueue ranks the learner's masteries most urgent first, lowest
// score first within a bucket. An empty urgency keeps every bucket.
func (s *reviewService) ReviewQueue(ctx context.Context, learnerID int64, urgency decay.Urgency, limit int) ([]models.MasteryReview, error) {
	log := logger.FromContext(ctx)
	log.Debug("building review queue: learner_id=%d, urgency=%s, limit=%d", learnerID, urgency, limit)

	if limit < 0 {
		return nil, errors.NewValidationError("limit", "cannot be negative")
	}
	if limit == 0 {
		limit = s.defaultLimit
	}

	learner, err := s.learner(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.evaluate(ctx, learner)
	if err != nil {
		return nil, err
	}

	queue := reviews[:0]
	for _, r := range reviews {
		if urgency == "" || r.Urgency == urgency {
			queue = append(queue, r)
		}
	}
	sort.SliceStable(queue, func(i, j int) bool {
		return decay.Less(queue[i].ReviewTiming, queue[j].ReviewTiming)
	})
	if limit > 0 && len(queue) > limit {
		queue = queue[:limit]
	}

	log.Debug("review queue has %d items", len(queue))
	return queue, nil
}

func (s *reviewService) Timeline(ctx context.Context, learnerID int64, days int) ([]decay.TimelinePoint, error) {
	log := logger.FromContext(ctx)
	log.Debug("building timeline: learner_id=%d, days=%d", learnerID, days)

	if days == 0 {
		days = DefaultTimelineDays
	}
	if days < 0 || days > MaxTimelineDays {
		return nil, errors.NewValidationError("days", "must be between 1 and 365")
	}

	if _, err := s.learner(ctx, learnerID); err != nil {
		return nil, err
	}
	masteries, err := s.masteryRepo.List(ctx, models.MasteryFilter{LearnerID: learnerID})
	if err != nil {
		log.Error("failed to list masteries: %v", err)
		return nil, errors.NewInternalError(err)
	}

	records := make([]decay.MasteryRecord, 0, len(masteries))
	for _, m := range masteries {
		if err := decay.Validate(m.Record()); err != nil {
			log.Warn("skipping mastery %d: %v", m.ID, err)
			continue
		}
		records = append(records, m.Record())
	}

	points, err := s.engine.Timeline(records, days)
	if err != nil {
		return nil, errors.FromDecay(err)
	}
	return points, nil
}

// RefreshSnapshots recomputes and stores the learner's snapshot set. It
// returns how many snapshots were written.
func (s *reviewService) RefreshSnapshots(ctx context.Context, learnerID int64) (int, error) {
	log := logger.FromContext(ctx)
	log.Debug("refreshing snapshots: learner_id=%d", learnerID)

	learner, err := s.learner(ctx, learnerID)
	if err != nil {
		return 0, err
	}
	reviews, err := s.evaluate(ctx, learner)
	if err != nil {
		return 0, err
	}

	now := s.engine.Now()
	snapshots := make([]models.ReviewSnapshot, 0, len(reviews))
	for _, r := range reviews {
		snapshots = append(snapshots, models.ReviewSnapshot{
			MasteryID:    r.Mastery.ID,
			LearnerID:    learner.ID,
			DecayedScore: r.DecayedScore,
			Urgency:      r.Urgency,
			ComputedAt:   now,
		})
	}

	if err := s.snapshotRepo.ReplaceForLearner(ctx, learner.ID, snapshots); err != nil {
		log.Error("failed to store snapshots: %v", err)
		return 0, storageError(err)
	}
	return len(snapshots), nil
}

func (s *reviewService) Snapshots(ctx context.Context, learnerID int64, urgency decay.Urgency) ([]models.ReviewSnapshot, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing snapshots: learner_id=%d, urgency=%s", learnerID, urgency)

	if _, err := s.learner(ctx, learnerID); err != nil {
		return nil, err
	}
	snapshots, err := s.snapshotRepo.ListForLearner(ctx, learnerID, urgency)
	if err != nil {
		log.Error("failed to list snapshots: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return snapshots, nil
}
