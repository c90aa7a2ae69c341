package config_test

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/csatutor/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:               ":8080",
		DBPath:             "test.db",
		LogLevel:           "INFO",
		Timezone:           "UTC",
		WeeklyPasswordSeed: "seed",
		AdminPassword:      "admin",
		PasswordLength:     10,
		OpenAIAPIKey:       "sk-test",
		OpenAIBaseURL:      "https://api.openai.com/v1",
		Model:              "gpt-4o-mini",
		LLMTimeout:         60 * time.Second,
		LLMMaxRetries:      1,
		SessionTTL:         168 * time.Hour,
		LoginRatePerMinute: 10,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_MissingSecrets(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "empty addr",
			mutate: func(c *config.Config) { c.Addr = "" },
			want:   "ADDR cannot be empty",
		},
		{
			name:   "empty db path",
			mutate: func(c *config.Config) { c.DBPath = "" },
			want:   "DB_PATH cannot be empty",
		},
		{
			name:   "missing seed",
			mutate: func(c *config.Config) { c.WeeklyPasswordSeed = "" },
			want:   "WEEKLY_PASSWORD_SEED",
		},
		{
			name:   "missing admin password",
			mutate: func(c *config.Config) { c.AdminPassword = "" },
			want:   "ADMIN_PASSWORD",
		},
		{
			name:   "missing api key",
			mutate: func(c *config.Config) { c.OpenAIAPIKey = "" },
			want:   "OPENAI_API_KEY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_Ranges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"password too short", func(c *config.Config) { c.PasswordLength = 3 }, "PASSWORD_LENGTH"},
		{"password too long", func(c *config.Config) { c.PasswordLength = 65 }, "PASSWORD_LENGTH"},
		{"zero timeout", func(c *config.Config) { c.LLMTimeout = 0 }, "LLM_TIMEOUT_SECONDS"},
		{"negative retries", func(c *config.Config) { c.LLMMaxRetries = -1 }, "LLM_MAX_RETRIES"},
		{"too many retries", func(c *config.Config) { c.LLMMaxRetries = 4 }, "LLM_MAX_RETRIES"},
		{"zero session ttl", func(c *config.Config) { c.SessionTTL = 0 }, "SESSION_TTL_HOURS"},
		{"zero login rate", func(c *config.Config) { c.LoginRatePerMinute = 0 }, "LOGIN_RATE_PER_MINUTE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"ADDR", "DB_PATH", "LOG_LEVEL", "LOG_FILE", "TIMEZONE", "PASSWORD_LENGTH", "OPENAI_BASE_URL",
		"MODEL", "LLM_TIMEOUT_SECONDS", "LLM_MAX_RETRIES", "RECORD_ALL_ATTEMPTS", "SESSION_TTL_HOURS",
		"LOGIN_RATE_PER_MINUTE", "CORS_ORIGINS",
	} {
		t.Setenv(key, "")
	}

	cfg := config.Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "file:wrongbook.db", cfg.DBPath)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, 10, cfg.PasswordLength)
	assert.Equal(t, "https://api.openai.com/v1", cfg.OpenAIBaseURL)
	assert.Equal(t, 60*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 1, cfg.LLMMaxRetries)
	assert.False(t, cfg.RecordAllAttempts)
	assert.Equal(t, 168*time.Hour, cfg.SessionTTL)
	assert.Nil(t, cfg.CORSOrigins)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("WEEKLY_PASSWORD_SEED", "s3cret")
	t.Setenv("ADMIN_PASSWORD", "boss")
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:11434/v1/")
	t.Setenv("LLM_TIMEOUT_SECONDS", "15")
	t.Setenv("RECORD_ALL_ATTEMPTS", "true")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("PASSWORD_LENGTH", "not-a-number")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "s3cret", cfg.WeeklyPasswordSeed)
	assert.Equal(t, "boss", cfg.AdminPassword)
	assert.Equal(t, "sk-env", cfg.OpenAIAPIKey)
	assert.Equal(t, "http://localhost:11434/v1", cfg.OpenAIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.LLMTimeout)
	assert.True(t, cfg.RecordAllAttempts)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 10, cfg.PasswordLength, "invalid int falls back to default")
}

func TestLocation(t *testing.T) {
	cfg := validConfig()

	cfg.Timezone = "America/New_York"
	assert.Equal(t, "America/New_York", cfg.Location().String())

	cfg.Timezone = "Mars/Olympus_Mons"
	assert.Equal(t, time.UTC, cfg.Location())

	cfg.Timezone = ""
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoad_InvalidTimezoneWarnsOnce(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	t.Setenv("TIMEZONE", "Mars/Olympus_Mons")
	cfg := config.Load()

	assert.Equal(t, time.UTC, cfg.Location())
	assert.Equal(t, time.UTC, cfg.Location())
	assert.Equal(t, 1, strings.Count(buf.String(), "invalid TIMEZONE"))
}

func TestLoad_ResolvesTimezone(t *testing.T) {
	t.Setenv("TIMEZONE", "Asia/Shanghai")
	cfg := config.Load()

	assert.Equal(t, "Asia/Shanghai", cfg.Location().String())
	assert.Same(t, cfg.Location(), cfg.Location())
}
