package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/recall/internal/decay"
	"github.com/vytor/recall/internal/models"
)

// MockReviewSnapshotRepository is a mock implementation of repository.ReviewSnapshotRepository
type MockReviewSnapshotRepository struct {
	mock.Mock
}

func (m *MockReviewSnapshotRepository) ReplaceForLearner(ctx context.Context, learnerID int64, snapshots []models.ReviewSnapshot) error {
	args := m.Called(ctx, learnerID, snapshots)
	return args.Error(0)
}

func (m *MockReviewSnapshotRepository) ListForLearner(ctx context.Context, learnerID int64, urgency decay.Urgency) ([]models.ReviewSnapshot, error) {
	args := m.Called(ctx, learnerID, urgency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReviewSnapshot), args.Error(1)
}
