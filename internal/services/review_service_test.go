package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/recall/internal/decay"
	"github.com/vytor/recall/internal/models"
	"github.com/vytor/recall/internal/testutil/mocks"
)

type ReviewServiceSuite struct {
	suite.Suite
	masteries *mocks.MockMasteryRepository
	learners  *mocks.MockLearnerRepository
	snapshots *mocks.MockReviewSnapshotRepository
	svc       ReviewService
	ctx       context.Context
}

func (s *ReviewServiceSuite) SetupTest() {
	s.masteries = new(mocks.MockMasteryRepository)
	s.learners = new(mocks.MockLearnerRepository)
	s.snapshots = new(mocks.MockReviewSnapshotRepository)
	s.svc = NewReviewService(s.masteries, s.learners, s.snapshots, fixedEngine(), 20)
	s.ctx = context.Background()

	s.learners.On("Get", s.ctx, int64(1)).Return(&models.Learner{ID: 1}, nil)
	s.learners.On("Get", s.ctx, int64(404)).Return(nil, nil)
	s.masteries.On("List", s.ctx, models.MasteryFilter{LearnerID: 1}).Return([]models.Mastery{
		{ID: 10, LearnerID: 1, Skill: "low", ProficiencyScore: 100, Stability: 1, LastPracticedAt: fixedNow},
		{ID: 11, LearnerID: 1, Skill: "high", ProficiencyScore: 80, Stability: 1, LastPracticedAt: fixedNow.Add(-9 * 24 * time.Hour)},
		{ID: 12, LearnerID: 1, Skill: "critical", ProficiencyScore: 20, Stability: 1, LastPracticedAt: fixedNow},
		{ID: 13, LearnerID: 1, Skill: "medium", ProficiencyScore: 60, Stability: 1, LastPracticedAt: fixedNow},
		{ID: 14, LearnerID: 1, Skill: "broken", ProficiencyScore: 70},
		{ID: 15, LearnerID: 1, Skill: "critical-lower", ProficiencyScore: 5, Stability: 1, LastPracticedAt: fixedNow},
	}, nil)
}

func ids(reviews []models.MasteryReview) []int64 {
	out := make([]int64, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, r.Mastery.ID)
	}
	return out
}

func (s *ReviewServiceSuite) TestReviewQueue_Ordering() {
	queue, err := s.svc.ReviewQueue(s.ctx, 1, "", 0)
	s.Require().NoError(err)
	s.Assert().Equal([]int64{15, 12, 11, 13, 10}, ids(queue), "invalid rows are skipped")
	s.Assert().Equal(decay.UrgencyCritical, queue[0].Urgency)
	s.Assert().Equal(decay.UrgencyLow, queue[len(queue)-1].Urgency)
}

func (s *ReviewServiceSuite) TestReviewQueue_FilterAndLimit() {
	critical, err := s.svc.ReviewQueue(s.ctx, 1, decay.UrgencyCritical, 0)
	s.Require().NoError(err)
	s.Assert().Equal([]int64{15, 12}, ids(critical))

	top, err := s.svc.ReviewQueue(s.ctx, 1, "", 3)
	s.Require().NoError(err)
	s.Assert().Equal([]int64{15, 12, 11}, ids(top))

	_, err = s.svc.ReviewQueue(s.ctx, 1, "", -1)
	requireAppError(s.T(), err, http.StatusBadRequest)
}

func (s *ReviewServiceSuite) TestReviewQueue_UnknownLearner() {
	_, err := s.svc.ReviewQueue(s.ctx, 404, "", 0)
	requireAppError(s.T(), err, http.StatusNotFound)
}

func (s *ReviewServiceSuite) TestTimeline() {
	points, err := s.svc.Timeline(s.ctx, 1, 10)
	s.Require().NoError(err)
	// Ten days back nothing had been practiced yet, so that day is omitted.
	s.Require().Len(points, 10)

	first := points[0]
	s.Assert().True(first.Date.Equal(fixedNow.Add(-9 * 24 * time.Hour)))
	s.Assert().Equal(1, first.Tracked)
	s.Assert().InDelta(80.0, first.AverageScore, 1e-9)

	last := points[len(points)-1]
	s.Assert().True(last.Date.Equal(fixedNow))
	s.Assert().Equal(5, last.Tracked)
	s.Assert().Equal(4, last.AtRisk)
}

func (s *ReviewServiceSuite) TestTimeline_Bounds() {
	_, err := s.svc.Timeline(s.ctx, 1, MaxTimelineDays+1)
	requireAppError(s.T(), err, http.StatusBadRequest)
}

func (s *ReviewServiceSuite) TestRefreshSnapshots() {
	s.snapshots.On("ReplaceForLearner", s.ctx, int64(1), mock.MatchedBy(func(snaps []models.ReviewSnapshot) bool {
		if len(snaps) != 5 {
			return false
		}
		for _, snap := range snaps {
			if snap.LearnerID != 1 || !snap.ComputedAt.Equal(fixedNow) || snap.Urgency == "" {
				return false
			}
		}
		return true
	})).Return(nil)

	n, err := s.svc.RefreshSnapshots(s.ctx, 1)
	s.Require().NoError(err)
	s.Assert().Equal(5, n)
	s.snapshots.AssertExpectations(s.T())
}

func (s *ReviewServiceSuite) TestSnapshots() {
	want := []models.ReviewSnapshot{{MasteryID: 12, LearnerID: 1, DecayedScore: 20, Urgency: decay.UrgencyCritical}}
	s.snapshots.On("ListForLearner", s.ctx, int64(1), decay.UrgencyCritical).Return(want, nil)

	got, err := s.svc.Snapshots(s.ctx, 1, decay.UrgencyCritical)
	s.Require().NoError(err)
	s.Assert().Equal(want, got)
}

func TestReviewServiceSuite(t *testing.T) {
	suite.Run(t, new(ReviewServiceSuite))
}

func TestReviewQueue_EmptyLearner(t *testing.T) {
	masteries := new(mocks.MockMasteryRepository)
	learners := new(mocks.MockLearnerRepository)
	svc := NewReviewService(masteries, learners, new(mocks.MockReviewSnapshotRepository), fixedEngine(), 20)
	ctx := context.Background()

	learners.On("Get", ctx, int64(2)).Return(&models.Learner{ID: 2}, nil)
	masteries.On("List", ctx, models.MasteryFilter{LearnerID: 2}).Return(nil, nil)

	queue, err := svc.ReviewQueue(ctx, 2, "", 0)
	require.NoError(t, err)
	assert.Empty(t, queue)
}
