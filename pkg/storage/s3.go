package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/df07/go-halide/pkg/core"
)

// UploadTimeout bounds a single object upload
const UploadTimeout = 30 * time.Second

// S3Config holds the bucket and credentials for uploading renders
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // Custom endpoint for S3-compatible stores; empty uses AWS
	AccessKey string // Empty falls back to the SDK's default credential chain
	SecretKey string
	Prefix    string // Key prefix, e.g. "renders"
}

// Enabled reports whether uploads are configured
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// S3Uploader puts rendered images into a bucket
type S3Uploader struct {
	config S3Config
	client s3iface.S3API
	logger core.Logger
}

// NewS3Uploader creates an uploader with its own SDK session
func NewS3Uploader(cfg S3Config, logger core.Logger) (*S3Uploader, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("S3 bucket not configured")
	}

	awsConfig := &aws.Config{}
	if cfg.Region != "" {
		awsConfig.Region = aws.String(cfg.Region)
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}
	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return NewS3UploaderWithClient(cfg, s3.New(sess), logger), nil
}

// NewS3UploaderWithClient creates an uploader around an existing S3 client
func NewS3UploaderWithClient(cfg S3Config, client s3iface.S3API, logger core.Logger) *S3Uploader {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &S3Uploader{config: cfg, client: client, logger: logger}
}

// UploadImage stores data under the configured prefix and returns the object key
func (u *S3Uploader) UploadImage(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	key := ObjectKey(u.config.Prefix, name)
	size := int64(len(data))

	_, err := u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.config.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	u.logger.Printf("Uploaded s3://%s/%s (%d bytes)\n", u.config.Bucket, key, size)
	return key, nil
}

// ObjectKey joins prefix and name into a slash-separated key without a leading slash
func ObjectKey(prefix, name string) string {
	key := path.Join(strings.Trim(prefix, "/"), strings.TrimLeft(name, "/"))
	return strings.TrimPrefix(key, "/")
}

// ContentType returns the MIME type for an output format name
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case "png":
		return "image/png"
	case "ppm":
		return "image/x-portable-pixmap"
	default:
		return "application/octet-stream"
	}
}
