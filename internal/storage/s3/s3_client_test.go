package s3

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evidencelens/internal/config"
)

func TestSourceKey(t *testing.T) {
	id := uuid.MustParse("7b0e3c1a-7a43-4a44-9f51-6f0b8d1c2e3f")

	assert.Equal(t, "analyses/7b0e3c1a-7a43-4a44-9f51-6f0b8d1c2e3f/0-trial.pdf", SourceKey(id, 0, "trial.pdf"))
	assert.Equal(t, "analyses/7b0e3c1a-7a43-4a44-9f51-6f0b8d1c2e3f/2-evil.pdf", SourceKey(id, 2, "../../evil.pdf"))
	assert.Equal(t, "analyses/7b0e3c1a-7a43-4a44-9f51-6f0b8d1c2e3f/1-scan.png", SourceKey(id, 1, `C:\Users\me\scan.png`))
	assert.Equal(t, "analyses/7b0e3c1a-7a43-4a44-9f51-6f0b8d1c2e3f/3-source", SourceKey(id, 3, ""))
}

func TestNewSourceArchive_RequiresBucket(t *testing.T) {
	_, err := NewSourceArchive(&config.S3Config{Region: "us-east-1"})
	assert.Error(t, err)
}

func TestGetPresignedURL(t *testing.T) {
	archive, err := NewSourceArchive(&config.S3Config{
		Region:        "us-east-1",
		Bucket:        "evidence",
		Endpoint:      "http://localhost:9000",
		AccessKey:     "minio",
		SecretKey:     "minio-secret",
		PresignExpiry: 60,
	})
	require.NoError(t, err)

	url, err := archive.GetPresignedURL(context.Background(), "analyses/x/0-a.pdf")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/evidence/analyses/x/0-a.pdf?"), url)
	assert.Contains(t, url, "X-Amz-Expires=60")
}
