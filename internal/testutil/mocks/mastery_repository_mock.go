package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/recall/internal/models"
)

// MockMasteryRepository is a mock implementation of repository.MasteryRepository
type MockMasteryRepository struct {
	mock.Mock
}

func (m *MockMasteryRepository) Get(ctx context.Context, id int64) (*models.Mastery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mastery), args.Error(1)
}

func (m *MockMasteryRepository) List(ctx context.Context, filter models.MasteryFilter) ([]models.Mastery, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Mastery), args.Error(1)
}

func (m *MockMasteryRepository) FindOrCreate(ctx context.Context, mastery models.Mastery) (*models.Mastery, bool, error) {
	args := m.Called(ctx, mastery)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Mastery), args.Bool(1), args.Error(2)
}

func (m *MockMasteryRepository) ApplyPractice(ctx context.Context, event models.PracticeEvent) (*models.Mastery, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mastery), args.Error(1)
}
