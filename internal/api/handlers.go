package api

import (
	"github.com/vytor/csatutor/internal/metrics"
	"github.com/vytor/csatutor/internal/repository"
	"github.com/vytor/csatutor/internal/services"
	"github.com/vytor/csatutor/internal/session"
)

type Server struct {
	TutorService     services.TutorService
	WrongbookService services.WrongbookService
	AuthService      services.AuthService
	Sessions         repository.SessionRepository
	Tokens           *session.Tokens
	LoginLimiter     *LoginLimiter
	Health           HealthChecker
	Metrics          *metrics.Metrics
	CORSOrigins      []string
}
