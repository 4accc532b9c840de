package storage

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopeer-io/platecheck/pkg/options"
)

func TestGeneratePresignedURL(t *testing.T) {
	opts := options.NewS3Options()
	opts.AccessKeyID = "access"
	opts.SecretAccessKey = "secret"

	archive, err := NewMinIO(opts)
	require.NoError(t, err)

	raw, err := archive.GeneratePresignedURL(context.Background(), "reports/WA67YSB/gold/1.json", time.Hour)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/platecheck-reports/reports/WA67YSB/gold/1.json", u.Path)
	assert.Equal(t, "3600", u.Query().Get("X-Amz-Expires"))
	assert.Equal(t, "application/json", u.Query().Get("response-content-type"))
	assert.Contains(t, u.Query().Get("X-Amz-Credential"), "eu-west-2")
}

func TestNewMinIORejectsBadEndpoint(t *testing.T) {
	opts := options.NewS3Options()
	opts.Endpoint = "http://localhost:9000"

	_, err := NewMinIO(opts)
	assert.Error(t, err)
}
