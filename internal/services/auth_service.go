package services

import (
	"context"
	"time"

	"github.com/vytor/csatutor/internal/credential"
	"github.com/vytor/csatutor/internal/errors"
	"github.com/vytor/csatutor/internal/logger"
	"github.com/vytor/csatutor/internal/metrics"
	"github.com/vytor/csatutor/internal/models"
	"github.com/vytor/csatutor/internal/repository"
	"github.com/vytor/csatutor/internal/session"
)

// AuthService moves sessions between the logged out, user and admin tiers.
type AuthService interface {
	LoginUser(ctx context.Context, sess session.Session, password string) (session.Session, error)
	LoginAdmin(ctx context.Context, sess session.Session, password string) (session.Session, error)
	LogoutUser(ctx context.Context, sess session.Session) session.Session
	LogoutAdmin(ctx context.Context, sess session.Session) session.Session
	UserActive(sess session.Session) bool
	WeeklyPassword(ctx context.Context) models.WeeklyPassword
}

type authService struct {
	gate       *credential.Gate
	sessions   repository.SessionRepository
	sessionTTL time.Duration
	metrics    *metrics.Metrics
	now        func() time.Time
}

// NewAuthService creates a new AuthService. Stale sessions older than
// sessionTTL are pruned on each successful login.
func NewAuthService(gate *credential.Gate, sessions repository.SessionRepository, sessionTTL time.Duration, m *metrics.Metrics) AuthService {
	return &authService{gate: gate, sessions: sessions, sessionTTL: sessionTTL, metrics: m, now: time.Now}
}

func (s *authService) LoginUser(ctx context.Context, sess session.Session, password string) (session.Session, error) {
	log := logger.FromContext(ctx).WithPrefix("auth")

	ok := s.gate.CheckUser(password)
	s.metrics.ObserveLogin("user", ok)
	if !ok {
		log.Warn("user login rejected: session=%s", sess.ID)
		return sess, errors.NewUnauthorizedError("wrong password")
	}

	sess.UserAuthed = true
	sess.AuthWindow = s.gate.Generator().CurrentWindow().String()
	log.Info("user logged in: session=%s, window=%s", sess.ID, sess.AuthWindow)
	s.pruneSessions(ctx)
	return sess, nil
}

func (s *authService) LoginAdmin(ctx context.Context, sess session.Session, password string) (session.Session, error) {
	log := logger.FromContext(ctx).WithPrefix("auth")

	ok := s.gate.CheckAdmin(password)
	s.metrics.ObserveLogin("admin", ok)
	if !ok {
		log.Warn("admin login rejected: session=%s", sess.ID)
		return sess, errors.NewUnauthorizedError("wrong admin password")
	}

	sess.Admin = true
	log.Info("admin logged in: session=%s", sess.ID)
	s.pruneSessions(ctx)
	return sess, nil
}

func (s *authService) LogoutUser(ctx context.Context, sess session.Session) session.Session {
	logger.FromContext(ctx).WithPrefix("auth").Info("user logged out: session=%s", sess.ID)
	sess.UserAuthed = false
	sess.AuthWindow = ""
	return sess
}

func (s *authService) LogoutAdmin(ctx context.Context, sess session.Session) session.Session {
	logger.FromContext(ctx).WithPrefix("auth").Info("admin logged out: session=%s", sess.ID)
	sess.Admin = false
	return sess
}

// UserActive is false once the weekly password has rotated past the login.
func (s *authService) UserActive(sess session.Session) bool {
	return sess.UserActive(s.gate.Generator().CurrentWindow().String())
}

func (s *authService) WeeklyPassword(ctx context.Context) models.WeeklyPassword {
	gen := s.gate.Generator()
	logger.FromContext(ctx).WithPrefix("auth").Debug("weekly password viewed")
	return models.WeeklyPassword{
		Password:     gen.Current(),
		Window:       gen.CurrentWindow().String(),
		NextRotation: gen.NextRotation().Format(time.RFC3339),
		Timezone:     gen.Location().String(),
	}
}

// pruneSessions is best effort; a failure only leaves old rows behind.
func (s *authService) pruneSessions(ctx context.Context) {
	if s.sessions == nil || s.sessionTTL <= 0 {
		return
	}
	if _, err := s.sessions.DeleteBefore(ctx, s.now().Add(-s.sessionTTL)); err != nil {
		logger.FromContext(ctx).WithPrefix("auth").Warn("failed to prune sessions: %v", err)
	}
}
