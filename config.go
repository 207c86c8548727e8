package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	awspkg "github.com/yuvalsigall-cpu/menu-cleaner/pkg/aws"
)

const apiKeySecret = "catalog-cleaner/API_KEY"

// Config holds all environment variables for the catalog-cleaner.
type Config struct {
	Port     string `validate:"required,numeric"`
	AppEnv   string `validate:"required"`
	RedisURL string `validate:"required,url"`

	AWS       awspkg.Options
	Bucket    string `validate:"required"`
	Prefix    string
	RunsTable string `validate:"required"`

	APIKey         string
	MaxUploadMB    int `validate:"min=1,max=500"`
	AllowedOrigins string

	CloudWatchEnabled   bool
	CloudWatchNamespace string
	CloudWatchLogGroup  string
}

// LoadConfig loads environment variables into Config and validates them.
// If AWS_USE_SECRETS=true the API key is read from Secrets Manager, falling
// back to CLEANER_API_KEY on failure.
func LoadConfig() (*Config, error) {
	maxUpload, err := strconv.Atoi(getEnv("MAX_UPLOAD_MB", "50"))
	if err != nil {
		return nil, fmt.Errorf("MAX_UPLOAD_MB must be a number: %w", err)
	}

	cfg := &Config{
		Port:                getEnv("PORT", "8085"),
		AppEnv:              getEnv("APP_ENV", "development"),
		RedisURL:            getEnv("REDIS_URL", "redis://redis:6379"),
		AWS:                 awspkg.OptionsFromEnv(),
		Bucket:              getEnv("AWS_S3_BUCKET", "menu-cleaner"),
		Prefix:              getEnv("AWS_S3_PREFIX", "catalog/"),
		RunsTable:           getEnv("DDB_TABLE_RUNS", "CleanRuns"),
		APIKey:              os.Getenv("CLEANER_API_KEY"),
		MaxUploadMB:         maxUpload,
		AllowedOrigins:      os.Getenv("ALLOWED_ORIGINS"),
		CloudWatchEnabled:   strings.EqualFold(os.Getenv("CLOUDWATCH_ENABLED"), "true"),
		CloudWatchNamespace: getEnv("CLOUDWATCH_NAMESPACE", awspkg.DefaultNamespace),
		CloudWatchLogGroup:  getEnv("CLOUDWATCH_LOG_GROUP", awspkg.DefaultLogGroup),
	}

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsCfg, err := awspkg.LoadAWSConfig(context.Background(), cfg.AWS); err == nil {
			sm := awspkg.NewSecretsClient(awsCfg)
			cfg.APIKey = sm.SecretOr(context.Background(), apiKeySecret, cfg.APIKey)
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) * 1024 * 1024
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
