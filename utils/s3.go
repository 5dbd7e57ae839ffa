package utils

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/nimbly-dev/ph-shoes-web-scrapper/internal/types"
)

// S3Uploader pushes extracted CSVs into the data-lake bucket. The upload is
// a pure sink; nothing feeds back into extraction.
type S3Uploader struct {
	client *s3.Client
	bucket string
	logger types.Logger
}

// NewS3UploaderFromEnv builds an uploader from the data-lake environment
// variables (AWS_S3_DATA_LAKE_UPLOADER_ACCESS_KEY_ID,
// AWS_S3_DATA_LAKE_UPLOADER_SECRET_ACCESS_KEY, AWS_REGION, S3_BUCKET).
func NewS3UploaderFromEnv(ctx context.Context, logger types.Logger) (*S3Uploader, error) {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is not set")
	}

	creds := credentials.NewStaticCredentialsProvider(
		os.Getenv("AWS_S3_DATA_LAKE_UPLOADER_ACCESS_KEY_ID"),
		os.Getenv("AWS_S3_DATA_LAKE_UPLOADER_SECRET_ACCESS_KEY"),
		"",
	)

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(os.Getenv("AWS_REGION")),
		awsconfig.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &S3Uploader{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		logger: logger,
	}, nil
}

// Upload serializes the records to CSV and puts them under a key derived
// from the current UTC date. Returns the object key.
func (u *S3Uploader) Upload(ctx context.Context, shoes []types.Shoe, fileName string) (string, error) {
	body, err := EncodeCSV(shoes, true)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	key := fmt.Sprintf("raw/%04d/%02d/%02d/%s", now.Year(), now.Month(), now.Day(), fileName)

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	u.logger.Infof("uploaded %d records to s3://%s/%s", len(shoes), u.bucket, key)
	return key, nil
}
