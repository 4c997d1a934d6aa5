// internal/config/config_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "")
	t.Setenv("ENVIRONMENT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "http://localhost:8000/api", cfg.Backend.BaseURL)
	assert.Equal(t, "es", cfg.I18n.DefaultLocale)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "/home", cfg.Frontend.RedirectAfterSubmit)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "https://api.example.co/api")
	t.Setenv("BACKEND_TIMEOUT", "7")
	t.Setenv("BACKEND_SERVICE_TOKEN", "svc")
	t.Setenv("DB_ENABLED", "TRUE")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.co, ,https://b.example.co")
	t.Setenv("RATE_SUBMIT_PER_MINUTE", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.co/api", cfg.Backend.BaseURL)
	assert.Equal(t, "7s", cfg.Backend.TimeoutDuration().String())
	assert.Equal(t, "svc", cfg.Backend.ServiceToken)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, []string{"https://a.example.co", "https://b.example.co"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 6, cfg.RateLimit.SubmitPerMinute)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Environment: "production",
			Backend:     BackendConfig{BaseURL: "https://api.example.co"},
			JWT:         JWTConfig{SecretKey: "s3cret"},
			RateLimit:   RateLimitConfig{RequestsPerMinute: 60, SubmitPerMinute: 6},
		}
	}
	assert.NoError(t, base().Validate())

	cfg := base()
	cfg.JWT.SecretKey = defaultJWTSecret
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Backend.BaseURL = ""
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Database = DatabaseConfig{Enabled: true}
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.RateLimit.SubmitPerMinute = 0
	assert.Error(t, cfg.Validate())
}

func TestDatabaseTargetHidesPassword(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "app", Password: "hunter2", Database: "requests", SSLMode: "disable"}
	assert.Contains(t, d.DSN(), "password=hunter2")
	assert.Equal(t, "app@db:5432/requests", d.Target())
	assert.NotContains(t, d.Target(), "hunter2")
}
