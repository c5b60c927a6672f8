// Copyright (c) 2026 Confero. All rights reserved.

/*
Package storage provides the object storage client for manuscript PDFs and
profile avatars.

It wraps the AWS SDK v2 S3 client so the rest of the system only deals with
object keys. The endpoint is configurable to support MinIO and other
S3-compatible providers in development.

Key Taxonomy:

  - articles/{articleID}.pdf : the submitted manuscript for an article.
  - avatars/{userID}         : the profile picture for a user.

Uploads go through the server (multipart form); downloads are served as
short-lived presigned GET URLs so PDF bytes never transit the API process.
*/
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/confero/confero/internal/platform/config"
	"github.com/confero/confero/internal/platform/constants"
)

// downloadURLTTL bounds how long a presigned manuscript link stays valid.
const downloadURLTTL = 15 * time.Minute

// Client is the S3-backed object store used across Confero.
type Client struct {
	api     *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// NewClient builds an S3 client from application configuration.
//
// # Parameters
//   - ctx: Context for credential resolution.
//   - cfg: Application configuration carrying bucket, region, endpoint, keys.
//   - logger: Structured logger for startup events.
func NewClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	loadOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}

	// Static credentials are used for self-hosted MinIO deployments; when
	// absent the SDK falls back to its default provider chain (IAM role).
	if cfg.S3AccessKey != "" {
		loadOptions = append(loadOptions, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to load AWS config: %w", err)
	}

	api := s3.NewFromConfig(awsCfg, func(options *s3.Options) {
		if cfg.S3Endpoint != "" {
			options.BaseEndpoint = aws.String(cfg.S3Endpoint)
			// Path-style addressing is required by MinIO.
			options.UsePathStyle = true
		}
	})

	logger.Info("object storage client ready",
		slog.String("bucket", cfg.S3Bucket),
		slog.String("region", cfg.S3Region),
	)

	return &Client{
		api:     api,
		presign: s3.NewPresignClient(api),
		bucket:  cfg.S3Bucket,
	}, nil
}

// # Key Builders

// ArticlePDFKey returns the object key for an article's manuscript.
func ArticlePDFKey(articleID string) string {
	return fmt.Sprintf(constants.StorageKeyArticlePDF, articleID)
}

// AvatarKey returns the object key for a user's avatar.
func AvatarKey(userID string) string {
	return fmt.Sprintf(constants.StorageKeyAvatar, userID)
}

// # Operations

/*
Upload streams an object into the bucket, overwriting any existing object
at the same key.

Parameters:
  - context: context.Context
  - key: string (object key)
  - body: io.Reader (object content)
  - contentType: string (MIME type stored with the object)

Returns:
  - error: Upload failures
*/
func (client *Client) Upload(context context.Context, key string, body io.Reader, contentType string) error {
	_, err := client.api.PutObject(context, &s3.PutObjectInput{
		Bucket:      aws.String(client.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})

	if err != nil {
		return fmt.Errorf("storage: put %q failed: %w", key, err)
	}

	return nil
}

/*
Delete removes an object from the bucket. Deleting a missing key is not an
error in S3 semantics, which makes this safe for compensating cleanups.

Parameters:
  - context: context.Context
  - key: string

Returns:
  - error: Deletion failures
*/
func (client *Client) Delete(context context.Context, key string) error {
	_, err := client.api.DeleteObject(context, &s3.DeleteObjectInput{
		Bucket: aws.String(client.bucket),
		Key:    aws.String(key),
	})

	if err != nil {
		return fmt.Errorf("storage: delete %q failed: %w", key, err)
	}

	return nil
}

/*
PresignDownload returns a short-lived GET URL for the object at key.

Parameters:
  - context: context.Context
  - key: string

Returns:
  - string: Presigned URL valid for 15 minutes
  - error: Signing failures
*/
func (client *Client) PresignDownload(context context.Context, key string) (string, error) {
	request, err := client.presign.PresignGetObject(context, &s3.GetObjectInput{
		Bucket: aws.String(client.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(downloadURLTTL))

	if err != nil {
		return "", fmt.Errorf("storage: presign %q failed: %w", key, err)
	}

	return request.URL, nil
}
