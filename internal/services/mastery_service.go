package services

import (
	"context"
	"math"
	"strings"

	"github.com/vytor/recall/internal/decay"
	"github.com/vytor/recall/internal/errors"
	"github.com/vytor/recall/internal/jobs"
	"github.com/vytor/recall/internal/logger"
	"github.com/vytor/recall/internal/models"
	"github.com/vytor/recall/internal/practice"
	"github.com/vytor/recall/internal/repository"
)

const (
	DefaultProjectionDays = 30
	MaxProjectionDays     = 365
)

// NewMastery is the input for registering a skill item for a learner.
type NewMastery struct {
	LearnerID int64   `json:"learner_id"`
	Skill     string  `json:"skill"`
	Score     float64 `json:"score"`
	Stability float64 `json:"stability"`
}

// Practice is the outcome of one practice session. A zero Stability with a
// positive Score asks for the stability to be derived from the previous one.
type Practice struct {
	Score     float64 `json:"score"`
	Stability float64 `json:"stability"`
	Success   bool    `json:"success"`
}

// MasteryService handles mastery-related business logic
type MasteryService interface {
	CreateMastery(ctx context.Context, in NewMastery) (*models.Mastery, bool, error)
	GetMastery(ctx context.Context, id int64) (*models.Mastery, error)
	Decay(ctx context.Context, id int64) (*models.MasteryReview, error)
	Projection(ctx context.Context, id int64, days int) ([]decay.ProjectionPoint, error)
	RecordPractice(ctx context.Context, id int64, p Practice) (*models.Mastery, error)
}

type masteryService struct {
	masteryRepo repository.MasteryRepository
	learnerRepo repository.LearnerRepository
	engine      *decay.Engine
	jobQueue    jobs.JobQueue
}

// NewMasteryService creates a new MasteryService. jobQueue may be nil.
func NewMasteryService(
	masteryRepo repository.MasteryRepository,
	learnerRepo repository.LearnerRepository,
	engine *decay.Engine,
	jobQueue jobs.JobQueue,
) MasteryService {
	return &masteryService{
		masteryRepo: masteryRepo,
		learnerRepo: learnerRepo,
		engine:      engine,
		jobQueue:    jobQueue,
	}
}

func validateScore(score, stability float64) error {
	if math.IsNaN(score) || score < decay.MinScore || score > decay.MaxScore {
		return errors.NewValidationError("score", "must be between 0 and 100")
	}
	if score > 0 && (math.IsNaN(stability) || math.IsInf(stability, 0) || stability <= 0) {
		return errors.NewValidationError("stability", "must be positive when score is above 0")
	}
	if math.IsNaN(stability) || stability < 0 {
		return errors.NewValidationError("stability", "cannot be negative")
	}
	return nil
}

// CreateMastery finds or creates the (learner, skill) item. A new item with
// a positive score counts as practiced now, at the learner's current
// chapter count.
func (s *masteryService) CreateMastery(ctx context.Context, in NewMastery) (*models.Mastery, bool, error) {
	log := logger.FromContext(ctx)
	in.Skill = strings.TrimSpace(in.Skill)
	log.Debug("creating mastery: learner_id=%d, skill=%s", in.LearnerID, in.Skill)

	if in.Skill == "" {
		return nil, false, errors.NewValidationError("skill", "cannot be empty")
	}
	if err := validateScore(in.Score, in.Stability); err != nil {
		return nil, false, err
	}

	learner, err := s.learnerRepo.Get(ctx, in.LearnerID)
	if err != nil {
		log.Error("failed to get learner: %v", err)
		return nil, false, errors.NewInternalError(err)
	}
	if learner == nil {
		return nil, false, errors.NewNotFoundError("learner", in.LearnerID)
	}

	m := models.Mastery{
		LearnerID:                  learner.ID,
		Skill:                      in.Skill,
		ProficiencyScore:           in.Score,
		Stability:                  in.Stability,
		ChaptersCompletedAtMastery: learner.ChaptersCompleted,
	}
	if in.Score > 0 {
		m.LastPracticedAt = s.engine.Now()
	}

	stored, created, err := s.masteryRepo.FindOrCreate(ctx, m)
	if err != nil {
		log.Error("failed to create mastery: %v", err)
		return nil, false, storageError(err)
	}
	return stored, created, nil
}

func (s *masteryService) GetMastery(ctx context.Context, id int64) (*models.Mastery, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting mastery: id=%d", id)

	m, err := s.masteryRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get mastery: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if m == nil {
		return nil, errors.NewNotFoundError("mastery", id)
	}
	return m, nil
}

// withChapters loads a mastery together with its learner's current
// chapter count.
func (s *masteryService) withChapters(ctx context.Context, id int64) (*models.Mastery, int, error) {
	m, err := s.GetMastery(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	learner, err := s.learnerRepo.Get(ctx, m.LearnerID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get learner: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	if learner == nil {
		return nil, 0, errors.NewNotFoundError("learner", m.LearnerID)
	}
	return m, learner.ChaptersCompleted, nil
}

func (s *masteryService) Decay(ctx context.Context, id int64) (*models.MasteryReview, error) {
	log := logger.FromContext(ctx)
	log.Debug("computing decay: mastery_id=%d", id)

	m, chapters, err := s.withChapters(ctx, id)
	if err != nil {
		return nil, err
	}

	timing, err := s.engine.SuggestReviewTiming(m.Record(), chapters)
	if err != nil {
		log.Warn("cannot evaluate mastery %d: %v", id, err)
		return nil, errors.FromDecay(err)
	}
	log.Debug("mastery %d decayed to %.2f (%s)", id, timing.DecayedScore, timing.Urgency)
	return &models.MasteryReview{Mastery: *m, ReviewTiming: timing}, nil
}

func (s *masteryService) Projection(ctx context.Context, id int64, days int) ([]decay.ProjectionPoint, error) {
	log := logger.FromContext(ctx)
	log.Debug("projecting decay: mastery_id=%d, days=%d", id, days)

	if days == 0 {
		days = DefaultProjectionDays
	}
	if days < 0 || days > MaxProjectionDays {
		return nil, errors.NewValidationError("days", "must be between 1 and 365")
	}

	m, chapters, err := s.withChapters(ctx, id)
	if err != nil {
		return nil, err
	}

	points, err := s.engine.Project(m.Record(), chapters, days)
	if err != nil {
		log.Warn("cannot project mastery %d: %v", id, err)
		return nil, errors.FromDecay(err)
	}
	return points, nil
}

// RecordPractice replaces the mastery's decay inputs with the session
// outcome, timestamped now.
func (s *masteryService) RecordPractice(ctx context.Context, id int64, p Practice) (*models.Mastery, error) {
	log := logger.FromContext(ctx)
	log.Debug("recording practice: mastery_id=%d, score=%.1f, stability=%.2f", id, p.Score, p.Stability)

	if p.Score > 0 && p.Stability == 0 {
		current, err := s.GetMastery(ctx, id)
		if err != nil {
			return nil, err
		}
		grade := practice.GradeFor(p.Score)
		p.Stability = practice.NextStability(current.Stability, grade)
		log.Debug("derived stability %.2f from %.2f (grade %d)", p.Stability, current.Stability, grade)
	}
	if err := validateScore(p.Score, p.Stability); err != nil {
		return nil, err
	}

	m, err := s.masteryRepo.ApplyPractice(ctx, models.PracticeEvent{
		MasteryID:   id,
		Score:       p.Score,
		Stability:   p.Stability,
		Success:     p.Success,
		PracticedAt: s.engine.Now(),
	})
	if err != nil {
		log.Error("failed to record practice: %v", err)
		return nil, storageError(err)
	}
	if m == nil {
		return nil, errors.NewNotFoundError("mastery", id)
	}

	enqueueRefresh(ctx, s.jobQueue, m.LearnerID)
	return m, nil
}
