package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(s.metricsMiddleware)
	if len(s.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(s.sessionMiddleware)

		login := r.With()
		if s.LoginLimiter != nil {
			login = r.With(s.LoginLimiter.Middleware)
		}
		login.Post("/login", s.handleLogin)
		login.Post("/admin/login", s.handleAdminLogin)
		r.Post("/logout", s.handleLogout)
		r.Post("/admin/logout", s.handleAdminLogout)
		r.With(s.requireAdmin).Get("/admin/password", s.handleWeeklyPassword)
		r.Get("/session", s.handleSession)

		r.Group(func(r chi.Router) {
			r.Use(s.requireUser)
			r.Get("/units", s.handleUnits)
			r.Post("/chat", s.handleChat)
			r.Post("/questions", s.handleGenerateQuestion)
			r.Post("/answers", s.handleSubmitAnswer)
			r.Get("/wrongbook", s.handleWrongbook)
			r.Get("/wrongbook/{id}", s.handleWrongbookEntry)
		})
	})

	return r
}
