package api

import (
	"context"
	"net/http"
	"time"

	"github.com/vytor/csatutor/internal/logger"
)

// HealthChecker reports whether a dependency can serve traffic.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// handleHealth is the liveness probe and always returns 200 OK.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleReady returns 503 until the database answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if s.Health != nil {
		if err := s.Health.Check(ctx); err != nil {
			logger.FromContext(ctx).Warn("readiness check failed - database: %v", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("Database unavailable"))
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}
