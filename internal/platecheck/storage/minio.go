// Package storage archives report snapshots in S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/autopeer-io/platecheck/internal/platecheck/core"
	"github.com/autopeer-io/platecheck/pkg/log"
	"github.com/autopeer-io/platecheck/pkg/options"
)

type MinIO struct {
	client     *minio.Client
	bucketName string
	region     string
}

var _ core.ReportArchive = (*MinIO)(nil)

// NewMinIO creates the archive. No request is made until first use.
func NewMinIO(opts *options.S3Options) (*MinIO, error) {
	minioOpts := &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKeyID, opts.SecretAccessKey, ""),
		Secure: opts.UseSSL,
		// A fixed region lets presigning work without a bucket-location lookup.
		Region: opts.Region,
	}

	client, err := minio.New(opts.Endpoint, minioOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinIO{
		client:     client,
		bucketName: opts.BucketName,
		region:     opts.Region,
	}, nil
}

// CheckBucket creates the bucket when it is missing.
func (p *MinIO) CheckBucket(ctx context.Context) error {
	exists, err := p.client.BucketExists(ctx, p.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		log.Info("Bucket does not exist, creating...", "bucket", p.bucketName)
		if err := p.client.MakeBucket(ctx, p.bucketName, minio.MakeBucketOptions{Region: p.region}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

func (p *MinIO) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := p.client.PutObject(ctx, p.bucketName, key, bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

func (p *MinIO) GeneratePresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	reqParams := make(url.Values)
	reqParams.Set("response-content-type", "application/json")

	presignedURL, err := p.client.PresignedGetObject(ctx, p.bucketName, key, expiry, reqParams)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned url: %w", err)
	}
	return presignedURL.String(), nil
}
