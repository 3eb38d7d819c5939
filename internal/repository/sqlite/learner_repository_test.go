package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/recall/internal/repository"
	"github.com/vytor/recall/internal/repository/sqlite"
	"github.com/vytor/recall/internal/testutil"
)

type LearnerRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.LearnerRepository
}

func (s *LearnerRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewLearnerRepository(s.db, sqlite.DefaultRetryPolicy())
}

func (s *LearnerRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *LearnerRepositorySuite) TestUpsertIsIdempotent() {
	ctx := context.Background()

	first, err := s.repo.Upsert(ctx, "ana")
	s.Require().NoError(err)
	s.Assert().Greater(first.ID, int64(0))
	s.Assert().Equal(0, first.ChaptersCompleted)

	second, err := s.repo.Upsert(ctx, "ana")
	s.Require().NoError(err)
	s.Assert().Equal(first.ID, second.ID)
}

func (s *LearnerRepositorySuite) TestGetAndGetByUsername() {
	ctx := context.Background()
	id := testutil.SeedLearner(s.T(), s.db, "bruno", 4)

	byID, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(byID)
	s.Assert().Equal("bruno", byID.Username)
	s.Assert().Equal(4, byID.ChaptersCompleted)

	byName, err := s.repo.GetByUsername(ctx, "bruno")
	s.Require().NoError(err)
	s.Require().NotNil(byName)
	s.Assert().Equal(id, byName.ID)
}

func (s *LearnerRepositorySuite) TestGet_NotFound() {
	ctx := context.Background()

	l, err := s.repo.Get(ctx, 99999)
	s.Assert().NoError(err)
	s.Assert().Nil(l)

	l, err = s.repo.GetByUsername(ctx, "nobody")
	s.Assert().NoError(err)
	s.Assert().Nil(l)
}

func (s *LearnerRepositorySuite) TestAddChapters() {
	ctx := context.Background()
	id := testutil.SeedLearner(s.T(), s.db, "carla", 2)

	l, err := s.repo.AddChapters(ctx, id, 3)
	s.Require().NoError(err)
	s.Require().NotNil(l)
	s.Assert().Equal(5, l.ChaptersCompleted)

	l, err = s.repo.AddChapters(ctx, id, 1)
	s.Require().NoError(err)
	s.Assert().Equal(6, l.ChaptersCompleted)
}

func (s *LearnerRepositorySuite) TestAddChapters_NotFound() {
	l, err := s.repo.AddChapters(context.Background(), 424242, 1)
	s.Assert().NoError(err)
	s.Assert().Nil(l)
}

func TestLearnerRepositorySuite(t *testing.T) {
	suite.Run(t, new(LearnerRepositorySuite))
}
