package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/csatutor/internal/models"
	"github.com/vytor/csatutor/internal/repository"
	"github.com/vytor/csatutor/internal/repository/sqlite"
	"github.com/vytor/csatutor/internal/session"
	"github.com/vytor/csatutor/internal/testutil"
)

type SessionRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.SessionRepository
}

func (s *SessionRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewSessionRepository(s.db)
}

func (s *SessionRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *SessionRepositorySuite) TestSaveAndLoad() {
	ctx := context.Background()

	sess := session.New()
	sess.UserAuthed = true
	sess.AuthWindow = "2026-W3"
	sess.Unit = "Unit4 Arrays"
	sess.CurrentQuestion = "int x = 1; x = x + 1;"
	sess = sess.WithChat(models.ChatMessage{Role: models.RoleUser, Content: "hello"})

	s.Require().NoError(s.repo.Save(ctx, sess))

	got, err := s.repo.Load(ctx, sess.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal(sess.ID, got.ID)
	s.Assert().True(got.UserAuthed)
	s.Assert().Equal("2026-W3", got.AuthWindow)
	s.Assert().Equal("Unit4 Arrays", got.Unit)
	s.Assert().Equal(sess.CurrentQuestion, got.CurrentQuestion)
	s.Assert().Equal(sess.Chat, got.Chat)
	s.Assert().False(got.UpdatedAt.IsZero())
}

func (s *SessionRepositorySuite) TestSaveOverwrites() {
	ctx := context.Background()

	sess := session.New()
	s.Require().NoError(s.repo.Save(ctx, sess))

	sess.Admin = true
	s.Require().NoError(s.repo.Save(ctx, sess))

	got, err := s.repo.Load(ctx, sess.ID)
	s.Require().NoError(err)
	s.Assert().True(got.Admin)

	var n int
	s.Require().NoError(s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n))
	s.Assert().Equal(1, n)
}

func (s *SessionRepositorySuite) TestLoad_NotFound() {
	got, err := s.repo.Load(context.Background(), "missing")
	s.Assert().NoError(err)
	s.Assert().Nil(got)
}

func (s *SessionRepositorySuite) TestSave_RequiresID() {
	s.Assert().Error(s.repo.Save(context.Background(), session.Session{}))
}

func (s *SessionRepositorySuite) TestDeleteBefore() {
	ctx := context.Background()
	sess := session.New()
	s.Require().NoError(s.repo.Save(ctx, sess))

	n, err := s.repo.DeleteBefore(ctx, time.Now().Add(-time.Hour))
	s.Require().NoError(err)
	s.Assert().Zero(n)

	n, err = s.repo.DeleteBefore(ctx, time.Now().Add(time.Hour))
	s.Require().NoError(err)
	s.Assert().Equal(int64(1), n)

	got, err := s.repo.Load(ctx, sess.ID)
	s.Require().NoError(err)
	s.Assert().Nil(got)
}

func TestSessionRepositorySuite(t *testing.T) {
	suite.Run(t, new(SessionRepositorySuite))
}
