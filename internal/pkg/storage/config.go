package storage

import (
	"errors"
	"strings"

	"github.com/sochai/sochai-web/internal/pkg/env"
)

// Config holds the object store configuration
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	PublicBaseURL   string
	AllowAnonymous  bool
}

// LoadConfig loads storage configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "us-east-1"),
		BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		PublicBaseURL:   strings.TrimRight(env.GetEnv("STORAGE_PUBLIC_BASE_URL", ""), "/"),
		AllowAnonymous:  env.GetBool("STORAGE_ALLOW_ANONYMOUS", false),
	}

	if cfg.BucketName == "" {
		return nil, errors.New("S3_BUCKET_NAME is required")
	}
	if cfg.PublicBaseURL == "" {
		return nil, errors.New("STORAGE_PUBLIC_BASE_URL is required")
	}
	return cfg, nil
}

// HasStaticCredentials reports whether an access key pair is configured.
func (c *Config) HasStaticCredentials() bool {
	return c.AccessKeyID != "" && c.SecretAccessKey != ""
}
