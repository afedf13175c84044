package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2/log"

	"github.com/sochai/sochai-web/internal/pkg/apperr"
)

// Client wraps the S3 client for the image bucket
type Client struct {
	s3Client *s3.Client
	config   *Config
}

// NewClient establishes the storage identity: static keys when configured,
// anonymous access when allowed, otherwise a configuration error.
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	var provider aws.CredentialsProvider
	switch {
	case cfg.HasStaticCredentials():
		provider = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	case cfg.AllowAnonymous:
		provider = aws.AnonymousCredentials{}
	default:
		return nil, apperr.New(apperr.KindConfiguration,
			"Image storage has no credentials. Set S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY or enable STORAGE_ALLOW_ANONYMOUS.")
	}

	awsConfig, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(provider),
	)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindConfiguration, "Image storage could not be configured", err)
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			o.UsePathStyle = true
			o.UseAccelerate = false
		}
	})

	log.Infof("[Storage] Initialized S3 client for bucket: %s", cfg.BucketName)
	return &Client{s3Client: s3Client, config: cfg}, nil
}

func (c *Client) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.config.BucketName),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
		Metadata: map[string]string{
			"upload-source": "sochai-web",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	log.Infof("[Storage] Uploaded: s3://%s/%s (%d bytes)", c.config.BucketName, key, size)
	return nil
}

func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.config.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object from S3: %w", err)
	}
	log.Infof("[Storage] Deleted: s3://%s/%s", c.config.BucketName, key)
	return nil
}

func (c *Client) PublicURL(key string) string {
	return publicURL(c.config.PublicBaseURL, key)
}

func (c *Client) KeyFromURL(rawURL string) (string, error) {
	return keyFromURL(c.config.PublicBaseURL, rawURL)
}
