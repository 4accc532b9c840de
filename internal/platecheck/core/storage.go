package core

import (
	"context"
	"time"
)

// ReportArchive stores rendered report snapshots for sharing.
type ReportArchive interface {
	// Put uploads body under key.
	Put(ctx context.Context, key string, body []byte, contentType string) error

	// GeneratePresignedURL generates a temporary URL for downloading a snapshot.
	GeneratePresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	// CheckBucket for initial
	CheckBucket(ctx context.Context) error
}
