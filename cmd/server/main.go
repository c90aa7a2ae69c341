package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/vytor/csatutor/internal/api"
	"github.com/vytor/csatutor/internal/config"
	"github.com/vytor/csatutor/internal/credential"
	"github.com/vytor/csatutor/internal/db"
	"github.com/vytor/csatutor/internal/llm"
	"github.com/vytor/csatutor/internal/logger"
	"github.com/vytor/csatutor/internal/metrics"
	"github.com/vytor/csatutor/internal/repository/sqlite"
	"github.com/vytor/csatutor/internal/services"
	"github.com/vytor/csatutor/internal/session"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
		logger.WithRotatingFile(cfg.LogFile, 0, 0),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("CSA Tutor Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("timezone=%s", cfg.Location())
	log.Debug("model=%s", cfg.Model)
	log.Debug("llm_timeout=%s", cfg.LLMTimeout)
	log.Debug("llm_max_retries=%d", cfg.LLMMaxRetries)
	log.Debug("record_all_attempts=%t", cfg.RecordAllAttempts)
	log.Debug("session_ttl=%s", cfg.SessionTTL)
	log.Debug("login_rate_per_minute=%d", cfg.LoginRatePerMinute)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	gen, err := credential.NewGenerator(cfg.WeeklyPasswordSeed, cfg.Location(), credential.WithLength(cfg.PasswordLength))
	if err != nil {
		log.Error("failed to create password generator: %v", err)
		os.Exit(1)
	}
	gate, err := credential.NewGate(gen, cfg.AdminPassword)
	if err != nil {
		log.Error("failed to create access gate: %v", err)
		os.Exit(1)
	}
	log.Info("weekly password window %s, next rotation %s", gen.CurrentWindow(), gen.NextRotation().Format(time.RFC3339))

	key, err := session.DeriveKey(cfg.AdminPassword, cfg.WeeklyPasswordSeed)
	if err != nil {
		log.Error("failed to derive session key: %v", err)
		os.Exit(1)
	}

	m := metrics.New()
	client := llm.New(llm.Config{
		BaseURL:    cfg.OpenAIBaseURL,
		APIKey:     cfg.OpenAIAPIKey,
		Model:      cfg.Model,
		Timeout:    cfg.LLMTimeout,
		MaxRetries: cfg.LLMMaxRetries,
	}, llm.WithMetrics(m))

	// Initialize repositories and services
	wrongbookRepo := sqlite.NewWrongbookRepository(database.DB)
	sessionRepo := sqlite.NewSessionRepository(database.DB)

	tutorService := services.NewTutorService(client, wrongbookRepo, services.TutorOptions{
		RecordAllAttempts: cfg.RecordAllAttempts,
		Metrics:           m,
	})
	wrongbookService := services.NewWrongbookService(wrongbookRepo)
	authService := services.NewAuthService(gate, sessionRepo, cfg.SessionTTL, m)

	srv := &api.Server{
		TutorService:     tutorService,
		WrongbookService: wrongbookService,
		AuthService:      authService,
		Sessions:         sessionRepo,
		Tokens:           session.NewTokens(key, cfg.SessionTTL),
		LoginLimiter:     api.NewLoginLimiter(cfg.LoginRatePerMinute),
		Health:           database,
		Metrics:          m,
		CORSOrigins:      cfg.CORSOrigins,
	}

	// A grading request may wait on every LLM attempt plus backoff.
	writeTimeout := time.Duration(cfg.LLMMaxRetries+1)*(cfg.LLMTimeout+time.Second) + 15*time.Second

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), writeTimeout)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("CSA Tutor Server Stopped")
	log.Info("===========================================")
}
