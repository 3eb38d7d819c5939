package repository

import (
	"context"

	"github.com/vytor/recall/internal/decay"
	"github.com/vytor/recall/internal/models"
)

// Lookups return (nil, nil) when the row does not exist.

// LearnerRepository handles learner data access
type LearnerRepository interface {
	Get(ctx context.Context, id int64) (*models.Learner, error)
	GetByUsername(ctx context.Context, username string) (*models.Learner, error)
	Upsert(ctx context.Context, username string) (*models.Learner, error)
	AddChapters(ctx context.Context, id int64, count int) (*models.Learner, error)
}

// MasteryRepository handles mastery data access
type MasteryRepository interface {
	Get(ctx context.Context, id int64) (*models.Mastery, error)
	List(ctx context.Context, filter models.MasteryFilter) ([]models.Mastery, error)
	FindOrCreate(ctx context.Context, mastery models.Mastery) (*models.Mastery, bool, error)
	ApplyPractice(ctx context.Context, event models.PracticeEvent) (*models.Mastery, error)
}

// ReviewSnapshotRepository stores the latest computed urgency per mastery
type ReviewSnapshotRepository interface {
	ReplaceForLearner(ctx context.Context, learnerID int64, snapshots []models.ReviewSnapshot) error
	ListForLearner(ctx context.Context, learnerID int64, urgency decay.Urgency) ([]models.ReviewSnapshot, error)
}
