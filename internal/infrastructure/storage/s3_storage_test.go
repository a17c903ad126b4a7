package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func minioConfig() *config.StorageConfig {
	return &config.StorageConfig{
		Bucket:        "images",
		AccessKey:     "test-key",
		SecretKey:     "test-secret",
		Endpoint:      "http://localhost:9000",
		UsePathStyle:  true,
		PresignExpiry: 10 * time.Minute,
	}
}

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.StorageConfig
		message string
	}{
		{"nil config", nil, "configuration is required"},
		{"missing bucket", &config.StorageConfig{AccessKey: "k", SecretKey: "s"}, "bucket is required"},
		{"missing access key", &config.StorageConfig{Bucket: "b", SecretKey: "s"}, "access key is required"},
		{"missing secret key", &config.StorageConfig{Bucket: "b", AccessKey: "k"}, "secret key is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewS3ObjectStorage(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestNewS3ObjectStorage_Defaults(t *testing.T) {
	cfg := minioConfig()
	cfg.PresignExpiry = 0

	storage, err := NewS3ObjectStorage(cfg, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, storage.presignExpiration)
	assert.Equal(t, "images", storage.GetBucket())
}

func TestS3ObjectStorage_PublicURL(t *testing.T) {
	t.Run("configured public url wins", func(t *testing.T) {
		cfg := minioConfig()
		cfg.PublicURL = "https://cdn.example.com/"
		storage, err := NewS3ObjectStorage(cfg)
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/images/a.png", storage.PublicURL("images/a.png"))
	})

	t.Run("path style endpoint", func(t *testing.T) {
		storage, err := NewS3ObjectStorage(minioConfig())
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9000/images/images/a.png", storage.PublicURL("/images/a.png"))
	})

	t.Run("virtual hosted endpoint", func(t *testing.T) {
		cfg := minioConfig()
		cfg.UsePathStyle = false
		cfg.Endpoint = "storage.example.com"
		storage, err := NewS3ObjectStorage(cfg)
		require.NoError(t, err)
		assert.Equal(t, "https://images.storage.example.com/x.png", storage.PublicURL("x.png"))
	})

	t.Run("aws", func(t *testing.T) {
		cfg := minioConfig()
		cfg.Endpoint = ""
		cfg.Region = "eu-central-1"
		storage, err := NewS3ObjectStorage(cfg)
		require.NoError(t, err)
		assert.Equal(t, "https://images.s3.eu-central-1.amazonaws.com/x.png", storage.PublicURL("x.png"))
	})
}

func TestS3ObjectStorage_GenerateUploadURL(t *testing.T) {
	storage, err := NewS3ObjectStorage(minioConfig())
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("empty key returns error", func(t *testing.T) {
		url, _, err := storage.GenerateUploadURL(ctx, "", "image/jpeg", time.Minute)
		require.Error(t, err)
		assert.Empty(t, url)
	})

	t.Run("presigns a PUT", func(t *testing.T) {
		url, expiresAt, err := storage.GenerateUploadURL(ctx, "images/2026/03/a.jpg", "image/jpeg", 0)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "http://localhost:9000/images/"))
		assert.Contains(t, url, "X-Amz-Signature")
		assert.True(t, expiresAt.After(time.Now().Add(9*time.Minute)))
		assert.True(t, expiresAt.Before(time.Now().Add(11*time.Minute)))
	})
}

func TestS3ObjectStorage_DeleteObject_EmptyKey(t *testing.T) {
	storage, err := NewS3ObjectStorage(minioConfig())
	require.NoError(t, err)

	err = storage.DeleteObject(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage key is required")
}
