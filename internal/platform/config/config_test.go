package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WAREHOUSE_ADDR", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("STORAGE_PROVIDER", "")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("MAIL_PROVIDER", "")
	t.Setenv("MAIL_API_URL", "")
	t.Setenv("RATE_LIMIT_AUTH", "")
	t.Setenv("RATE_LIMIT_WINDOW", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "local", cfg.Upload.Provider)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "log", cfg.Mail.Provider)
	assert.Empty(t, cfg.PubSub.ProjectID)
	assert.Equal(t, 10, cfg.RateLimit.AuthLimit)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WAREHOUSE_ADDR", ":9090")
	t.Setenv("TOKEN_TTL", "15m")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")
	t.Setenv("MAIL_RECIPIENT_OVERRIDE", "ops@example.com")
	t.Setenv("MAIL_PROVIDER", "")
	t.Setenv("MAIL_API_URL", "https://mail.example.com/send")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "ops@example.com", cfg.Mail.RecipientOverride)
	assert.Equal(t, "http", cfg.Mail.Provider)
}

func TestFromEnv_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("TOKEN_TTL", "soon")
		_, err := FromEnv()
		require.Error(t, err)
	})

	t.Run("gcs without bucket", func(t *testing.T) {
		t.Setenv("STORAGE_PROVIDER", "gcs")
		t.Setenv("GCS_BUCKET", "")
		_, err := FromEnv()
		require.Error(t, err)
	})

	t.Run("unknown mail provider", func(t *testing.T) {
		t.Setenv("MAIL_PROVIDER", "carrier-pigeon")
		_, err := FromEnv()
		require.Error(t, err)
	})

	t.Run("production requires a signing key", func(t *testing.T) {
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("JWT_SIGNING_KEY", "")
		_, err := FromEnv()
		require.Error(t, err)
	})
}
