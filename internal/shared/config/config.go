package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreLocal = "local"
	StoreS3    = "s3"
	StoreMinIO = "minio"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	MaxUploadBytes  int64
	RateLimitRPS    float64
	RateLimitBurst  int

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string
	MinIOEndpoint   string
	MinIOAccessKey  string
	MinIOSecretKey  string
	MinIOBucket     string
	MinIOUseSSL     bool

	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	DBConnMaxIdleTime time.Duration
	DBPingTimeout     time.Duration

	SummarizerAPIKey  string
	SummarizerAPIURL  string
	SummarizerModel   string
	SummarizerTimeout time.Duration
	SummarizerRPS     float64
	SummarizerBurst   int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	apiKey := strings.TrimSpace(v.GetString("SUMMARIZER_API_KEY"))
	if apiKey == "" {
		apiKey = strings.TrimSpace(v.GetString("GITHUB_TOKEN"))
	}

	return Config{
		Port:            v.GetString("PORT"),
		Env:             normalizeEnv(v.GetString("ENV")),
		CORSAllowOrigin: splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		MaxUploadBytes:  v.GetInt64("MAX_UPLOAD_BYTES"),
		RateLimitRPS:    v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:  v.GetInt("RATE_LIMIT_BURST"),

		ObjectStoreType: normalizeStoreType(v.GetString("OBJECT_STORE")),
		LocalStoreDir:   v.GetString("LOCAL_STORE_DIR"),
		AWSRegion:       v.GetString("AWS_REGION"),
		S3Bucket:        v.GetString("S3_BUCKET"),
		S3Prefix:        v.GetString("S3_PREFIX"),
		SSEKMSKeyID:     v.GetString("SSE_KMS_KEY_ID"),
		MinIOEndpoint:   v.GetString("MINIO_ENDPOINT"),
		MinIOAccessKey:  v.GetString("MINIO_ACCESS_KEY"),
		MinIOSecretKey:  v.GetString("MINIO_SECRET_KEY"),
		MinIOBucket:     v.GetString("MINIO_BUCKET"),
		MinIOUseSSL:     v.GetBool("MINIO_USE_SSL"),

		DatabaseURL:       v.GetString("DATABASE_URL"),
		DBMaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
		DBConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		DBConnMaxIdleTime: v.GetDuration("DB_CONN_MAX_IDLE_TIME"),
		DBPingTimeout:     v.GetDuration("DB_PING_TIMEOUT"),

		SummarizerAPIKey:  apiKey,
		SummarizerAPIURL:  v.GetString("SUMMARIZER_API_URL"),
		SummarizerModel:   v.GetString("SUMMARIZER_MODEL"),
		SummarizerTimeout: v.GetDuration("SUMMARIZER_TIMEOUT"),
		SummarizerRPS:     v.GetFloat64("SUMMARIZER_RPS"),
		SummarizerBurst:   v.GetInt("SUMMARIZER_BURST"),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "dev")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:3000")
	v.SetDefault("MAX_UPLOAD_BYTES", 10<<20)
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("OBJECT_STORE", StoreLocal)
	v.SetDefault("LOCAL_STORE_DIR", "./data")
	v.SetDefault("MINIO_BUCKET", "documents")
	v.SetDefault("SUMMARIZER_API_URL", "https://models.github.ai/inference/chat/completions")
	v.SetDefault("SUMMARIZER_MODEL", "gpt-4.1")
	v.SetDefault("SUMMARIZER_TIMEOUT", "60s")
	v.SetDefault("SUMMARIZER_RPS", 1)
	v.SetDefault("SUMMARIZER_BURST", 3)
}

// WithDefaults fills zero-valued fields with the same defaults Load applies.
func (c Config) WithDefaults() Config {
	if strings.TrimSpace(c.Port) == "" {
		c.Port = "8080"
	}
	c.Env = normalizeEnv(c.Env)
	c.ObjectStoreType = normalizeStoreType(c.ObjectStoreType)
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = 10 << 20
	}
	if c.RateLimitRPS <= 0 {
		c.RateLimitRPS = 5
	}
	if c.RateLimitBurst <= 0 {
		c.RateLimitBurst = 20
	}
	if strings.TrimSpace(c.MinIOBucket) == "" {
		c.MinIOBucket = "documents"
	}
	if strings.TrimSpace(c.SummarizerAPIURL) == "" {
		c.SummarizerAPIURL = "https://models.github.ai/inference/chat/completions"
	}
	if strings.TrimSpace(c.SummarizerModel) == "" {
		c.SummarizerModel = "gpt-4.1"
	}
	if c.SummarizerTimeout <= 0 {
		c.SummarizerTimeout = 60 * time.Second
	}
	if c.SummarizerRPS <= 0 {
		c.SummarizerRPS = 1
	}
	if c.SummarizerBurst <= 0 {
		c.SummarizerBurst = 3
	}
	return c
}

// Validate reports configuration that cannot produce a working process.
// A missing summarizer credential is not an error: only summary generation needs it.
func (c Config) Validate() error {
	var errs []error
	if c.Env == "production" && strings.TrimSpace(c.DatabaseURL) == "" {
		errs = append(errs, errors.New("DATABASE_URL is required in production"))
	}
	switch c.ObjectStoreType {
	case StoreS3:
		if strings.TrimSpace(c.S3Bucket) == "" {
			errs = append(errs, errors.New("OBJECT_STORE=s3 requires S3_BUCKET"))
		}
	case StoreMinIO:
		if strings.TrimSpace(c.MinIOEndpoint) == "" || strings.TrimSpace(c.MinIOBucket) == "" {
			errs = append(errs, errors.New("OBJECT_STORE=minio requires MINIO_ENDPOINT and MINIO_BUCKET"))
		}
	default:
		if strings.TrimSpace(c.LocalStoreDir) == "" {
			errs = append(errs, errors.New("LOCAL_STORE_DIR is required for the local object store"))
		}
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes))
	}
	if c.SummarizerTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SUMMARIZER_TIMEOUT must be positive, got %s", c.SummarizerTimeout))
	}
	return errors.Join(errs...)
}

// IsDevLike reports whether the environment tolerates in-memory fallbacks.
func (c Config) IsDevLike() bool {
	switch c.Env {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case StoreS3:
		return StoreS3
	case StoreMinIO:
		return StoreMinIO
	default:
		return StoreLocal
	}
}
