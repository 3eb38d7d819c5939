package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueSnapshotRefresh(learnerID int64) error {
	args := m.Called(learnerID)
	return args.Error(0)
}
