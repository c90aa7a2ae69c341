package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr     string
	DBPath   string
	LogLevel string
	LogFile  string

	Timezone           string
	WeeklyPasswordSeed string
	AdminPassword      string
	PasswordLength     int

	OpenAIAPIKey  string
	OpenAIBaseURL string
	Model         string
	LLMTimeout    time.Duration
	LLMMaxRetries int

	RecordAllAttempts  bool
	SessionTTL         time.Duration
	LoginRatePerMinute int
	CORSOrigins        []string

	loc *time.Location
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when optional values are missing or invalid. Required secrets are
// checked by Validate.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	cfg := Config{
		Addr:               envOr("ADDR", ":8080"),
		DBPath:             envOr("DB_PATH", "file:wrongbook.db"),
		LogLevel:           envOr("LOG_LEVEL", "INFO"),
		LogFile:            os.Getenv("LOG_FILE"),
		Timezone:           envOr("TIMEZONE", "UTC"),
		WeeklyPasswordSeed: os.Getenv("WEEKLY_PASSWORD_SEED"),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
		PasswordLength:     envIntOr("PASSWORD_LENGTH", 10),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:      strings.TrimRight(envOr("OPENAI_BASE_URL", "https://api.openai.com/v1"), "/"),
		Model:              envOr("MODEL", "gpt-4o-mini"),
		LLMTimeout:         time.Duration(envIntOr("LLM_TIMEOUT_SECONDS", 60)) * time.Second,
		LLMMaxRetries:      envIntOr("LLM_MAX_RETRIES", 1),
		RecordAllAttempts:  envBoolOr("RECORD_ALL_ATTEMPTS", false),
		SessionTTL:         time.Duration(envIntOr("SESSION_TTL_HOURS", 168)) * time.Hour,
		LoginRatePerMinute: envIntOr("LOGIN_RATE_PER_MINUTE", 10),
		CORSOrigins:        envListOr("CORS_ORIGINS", nil),
	}

	loc, err := resolveLocation(cfg.Timezone)
	if err != nil {
		log.Printf("invalid TIMEZONE=%q, using UTC", cfg.Timezone)
	}
	cfg.loc = loc
	return cfg
}

// Validate reports the first configuration problem. Missing secrets are fatal: the
// service must not start with a defaulted password seed or admin secret.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.WeeklyPasswordSeed == "" {
		return fmt.Errorf("WEEKLY_PASSWORD_SEED is required")
	}
	if c.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required")
	}
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.PasswordLength < 4 || c.PasswordLength > 64 {
		return fmt.Errorf("PASSWORD_LENGTH must be between 4 and 64, got %d", c.PasswordLength)
	}
	if c.LLMTimeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT_SECONDS must be positive")
	}
	if c.LLMMaxRetries < 0 || c.LLMMaxRetries > 3 {
		return fmt.Errorf("LLM_MAX_RETRIES must be between 0 and 3, got %d", c.LLMMaxRetries)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL_HOURS must be positive")
	}
	if c.LoginRatePerMinute <= 0 {
		return fmt.Errorf("LOGIN_RATE_PER_MINUTE must be positive")
	}
	return nil
}

// Location returns the zone Load resolved from Timezone. A Config built without
// Load resolves Timezone on each call. Empty or unknown names mean UTC.
func (c Config) Location() *time.Location {
	if c.loc != nil {
		return c.loc
	}
	loc, _ := resolveLocation(c.Timezone)
	return loc
}

func resolveLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC, err
	}
	return loc, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
