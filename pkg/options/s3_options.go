package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*S3Options)(nil)

// S3Options configures the report archive used for share links.
type S3Options struct {
	// Enabled turns on archiving. When false the share endpoint answers 501.
	Enabled         bool          `json:"enabled" mapstructure:"enabled"`
	Endpoint        string        `json:"endpoint" mapstructure:"endpoint"`
	AccessKeyID     string        `json:"access-key-id" mapstructure:"access-key-id"`
	SecretAccessKey string        `json:"secret-access-key" mapstructure:"secret-access-key"`
	UseSSL          bool          `json:"use-ssl" mapstructure:"use-ssl"`
	BucketName      string        `json:"bucket-name" mapstructure:"bucket-name"`
	Region          string        `json:"region" mapstructure:"region"`
	ShareExpiry     time.Duration `json:"share-expiry" mapstructure:"share-expiry"`
}

func NewS3Options() *S3Options {
	return &S3Options{
		Endpoint:    "localhost:9000",
		UseSSL:      false,
		BucketName:  "platecheck-reports",
		Region:      "eu-west-2",
		ShareExpiry: 24 * time.Hour,
	}
}

func (o *S3Options) Validate() []error {
	if o == nil || !o.Enabled {
		return nil
	}

	errors := []error{}

	if o.Endpoint == "" {
		errors = append(errors, fmt.Errorf("--s3.endpoint must not be empty"))
	}
	if o.BucketName == "" {
		errors = append(errors, fmt.Errorf("--s3.bucket-name must not be empty"))
	}
	// Presigned URLs are capped at seven days by the S3 signature scheme.
	if o.ShareExpiry <= 0 || o.ShareExpiry > 7*24*time.Hour {
		errors = append(errors, fmt.Errorf("--s3.share-expiry must be between 1s and 168h"))
	}

	return errors
}

func (o *S3Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.BoolVar(&o.Enabled, "s3.enabled", o.Enabled, "Archive shared reports to S3-compatible storage.")
	fs.StringVar(&o.Endpoint, "s3.endpoint", o.Endpoint, "S3 service endpoint (e.g. s3.amazonaws.com or minio.local:9000)")
	fs.StringVar(&o.AccessKeyID, "s3.access-key-id", o.AccessKeyID, "S3 access key ID")
	fs.StringVar(&o.SecretAccessKey, "s3.secret-access-key", o.SecretAccessKey, "S3 secret access key")
	fs.BoolVar(&o.UseSSL, "s3.use-ssl", o.UseSSL, "Enable SSL for S3 connection")
	fs.StringVar(&o.BucketName, "s3.bucket-name", o.BucketName, "S3 bucket name for archived reports")
	fs.StringVar(&o.Region, "s3.region", o.Region, "S3 region")
	fs.DurationVar(&o.ShareExpiry, "s3.share-expiry", o.ShareExpiry, "Lifetime of presigned report share links")
}
