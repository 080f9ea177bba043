package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Server captures process-level configuration.
type Server struct {
	Addr           string
	LogLevel       string
	Environment    string
	JWTSigningKey  string
	JWTIssuer      string
	TokenTTL       time.Duration
	RequestTimeout time.Duration

	DatabaseURL string
	Redis       RedisConfig
	Kafka       KafkaConfig
	PubSub      PubSubConfig
	Mail        MailConfig
	Upload      UploadConfig
	RateLimit   RateLimitConfig
	OAuth       OAuthConfig
}

// RedisConfig configures the optional Redis client used for token revocation
// and order locks. An empty URL disables Redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the optional audit sink.
type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
}

// PubSubConfig configures the optional Cloud Pub/Sub audit sink. An empty
// project disables it.
type PubSubConfig struct {
	ProjectID       string
	AuditTopic      string
	CredentialsJSON string
}

// MailConfig selects the outbound mailer. Provider is "http", "ses" or "log";
// when empty it is "http" if APIURL is set and "log" otherwise.
type MailConfig struct {
	Provider          string
	APIURL            string
	APIKey            string
	From              string
	RecipientOverride string
	SES               SESConfig
}

type SESConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

type UploadConfig struct {
	Provider     string // "local" or "gcs"
	Dir          string
	PublicPrefix string
	GCSBucket    string
	// GCSCredentialsJSON is a service account key; empty uses application default credentials.
	GCSCredentialsJSON string
	MaxBytes           int64
}

// RateLimitConfig throttles login and registration per client IP. A zero
// AuthLimit disables it.
type RateLimitConfig struct {
	AuthLimit int
	Window    time.Duration
}

// OAuthConfig is passed through to the external OAuth collaborator.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
}

const devSigningKey = "dev-secret-key-change-in-production"

// FromEnv builds a Server config from environment variables, loading .env
// first when present so main stays lean.
func FromEnv() (Server, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Server{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Server{
		Addr:          getEnv("WAREHOUSE_ADDR", ":8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		JWTSigningKey: getEnv("JWT_SIGNING_KEY", devSigningKey),
		JWTIssuer:     getEnv("JWT_ISSUER", "warehouse"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Kafka: KafkaConfig{
			Brokers:    splitList(os.Getenv("KAFKA_BROKERS")),
			AuditTopic: getEnv("KAFKA_AUDIT_TOPIC", "warehouse.audit"),
		},
		PubSub: PubSubConfig{
			ProjectID:       os.Getenv("PUBSUB_PROJECT_ID"),
			AuditTopic:      getEnv("PUBSUB_AUDIT_TOPIC", "warehouse-audit"),
			CredentialsJSON: os.Getenv("GCP_CREDENTIALS_JSON"),
		},
		Mail: MailConfig{
			Provider:          strings.ToLower(os.Getenv("MAIL_PROVIDER")),
			APIURL:            os.Getenv("MAIL_API_URL"),
			APIKey:            os.Getenv("MAIL_API_KEY"),
			From:              getEnv("MAIL_FROM", "no-reply@warehouse.local"),
			RecipientOverride: os.Getenv("MAIL_RECIPIENT_OVERRIDE"),
			SES: SESConfig{
				Region:          getEnv("AWS_REGION", "us-east-1"),
				AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
				SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			},
		},
		Upload: UploadConfig{
			Provider:           getEnv("STORAGE_PROVIDER", "local"),
			Dir:                getEnv("UPLOAD_DIR", "uploads"),
			PublicPrefix:       getEnv("UPLOAD_PUBLIC_PREFIX", "/uploads"),
			GCSBucket:          os.Getenv("GCS_BUCKET"),
			GCSCredentialsJSON: os.Getenv("GCS_CREDENTIALS_JSON"),
			MaxBytes:           10 << 20,
		},
		OAuth: OAuthConfig{
			ClientID:     os.Getenv("OAUTH_CLIENT_ID"),
			ClientSecret: os.Getenv("OAUTH_CLIENT_SECRET"),
		},
	}

	var err error
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", time.Hour); err != nil {
		return Server{}, err
	}
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.RateLimit.AuthLimit, err = getInt("RATE_LIMIT_AUTH", 10); err != nil {
		return Server{}, err
	}
	if cfg.RateLimit.Window, err = getDuration("RATE_LIMIT_WINDOW", time.Minute); err != nil {
		return Server{}, err
	}
	if cfg.Redis.PoolSize, err = getInt("REDIS_POOL_SIZE", 10); err != nil {
		return Server{}, err
	}
	if cfg.Redis.MinIdleConns, err = getInt("REDIS_MIN_IDLE_CONNS", 2); err != nil {
		return Server{}, err
	}
	if cfg.Redis.DialTimeout, err = getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Redis.ReadTimeout, err = getDuration("REDIS_READ_TIMEOUT", 3*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Redis.WriteTimeout, err = getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second); err != nil {
		return Server{}, err
	}

	if cfg.Mail.Provider == "" {
		cfg.Mail.Provider = "log"
		if cfg.Mail.APIURL != "" {
			cfg.Mail.Provider = "http"
		}
	}
	switch cfg.Mail.Provider {
	case "http", "ses", "log":
	default:
		return Server{}, fmt.Errorf("unknown MAIL_PROVIDER %q", cfg.Mail.Provider)
	}
	if cfg.Upload.Provider == "gcs" && cfg.Upload.GCSBucket == "" {
		return Server{}, errors.New("GCS_BUCKET is required when STORAGE_PROVIDER=gcs")
	}
	if cfg.Environment == "production" && cfg.JWTSigningKey == devSigningKey {
		return Server{}, errors.New("JWT_SIGNING_KEY must be set in production")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
