package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"sierras-backend/internal/config"
	"sierras-backend/internal/timeutil"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Uploader pushes report exports to an S3-compatible bucket (R2 in
// production). A nil Uploader is valid and skips uploads.
type Uploader struct {
	client *s3.Client
	bucket string
}

// NewUploader builds an uploader from config. Returns nil when exports
// are disabled; callers must tolerate that.
func NewUploader(cfg *config.Config) *Uploader {
	if !cfg.Export.Enabled {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Export.AccessKey,
			cfg.Export.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Export.Region),
	)
	if err != nil {
		log.Printf("[Storage] Failed to configure export client: %v", err)
		return nil
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Export.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Export.Endpoint)
		}
	})

	return &Uploader{client: client, bucket: cfg.Export.Bucket}
}

// Upload stores one export object under exports/YYYY/MM/name and returns
// the object key.
func (u *Uploader) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if u == nil {
		return "", nil
	}

	now := timeutil.Now()
	key := fmt.Sprintf("exports/%04d/%02d/%s", now.Year(), int(now.Month()), name)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	return key, nil
}
