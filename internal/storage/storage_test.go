package storage

import (
	"context"
	"strings"
	"testing"

	"questionapi/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLMapper(t *testing.T) {
	m := newURLMapper("https://cdn.example.com/bucket/")

	u := m.URL("questions/q1/image/abc.png")
	assert.Equal(t, "https://cdn.example.com/bucket/questions/q1/image/abc.png", u)

	key, ok := m.KeyFromURL(u)
	require.True(t, ok)
	assert.Equal(t, "questions/q1/image/abc.png", key)

	_, ok = m.KeyFromURL("https://elsewhere.example.com/bucket/x.png")
	assert.False(t, ok)
	_, ok = m.KeyFromURL("https://cdn.example.com/bucket/")
	assert.False(t, ok)
}

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	s := NewMemory("attachments")

	info, err := s.Put(ctx, "questions/q1/image/a.png", strings.NewReader("png"), PutObjectOptions{Size: 3, ContentType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, "memory://attachments/questions/q1/image/a.png", info.URL)
	assert.Equal(t, int64(3), info.Size)

	data, ok := s.Object("questions/q1/image/a.png")
	require.True(t, ok)
	assert.Equal(t, "png", string(data))
	assert.Equal(t, []string{"questions/q1/image/a.png"}, s.Keys())

	key, ok := s.KeyFromURL(info.URL)
	require.True(t, ok)
	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key), "deleting a missing key is not an error")
	assert.Empty(t, s.Keys())
}

func TestBaseURLs(t *testing.T) {
	assert.Equal(t, "http://localhost:9000/att", minioBaseURL(config.MinIOConfig{Endpoint: "localhost:9000", Bucket: "att"}))
	assert.Equal(t, "https://minio.local/att", minioBaseURL(config.MinIOConfig{Endpoint: "minio.local", Bucket: "att", UseSSL: true}))
	assert.Equal(t, "https://cdn", minioBaseURL(config.MinIOConfig{Endpoint: "minio.local", PublicURL: "https://cdn"}))

	assert.Equal(t, "https://att.s3.eu-west-1.amazonaws.com", s3BaseURL(config.S3Config{Bucket: "att", Region: "eu-west-1"}))
	assert.Equal(t, "http://localhost:4566/att", s3BaseURL(config.S3Config{Bucket: "att", Endpoint: "http://localhost:4566/"}))
	assert.Equal(t, "https://cdn", s3BaseURL(config.S3Config{Bucket: "att", PublicURL: "https://cdn"}))
}

func TestNewMinIO_Validation(t *testing.T) {
	ctx := context.Background()

	_, err := NewMinIO(ctx, config.MinIOConfig{})
	assert.EqualError(t, err, "minio endpoint is required")

	_, err = NewMinIO(ctx, config.MinIOConfig{Endpoint: "localhost:9000"})
	assert.EqualError(t, err, "minio credentials are required")

	_, err = NewMinIO(ctx, config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"})
	assert.EqualError(t, err, "minio bucket is required")
}

func TestNewS3_Validation(t *testing.T) {
	_, err := NewS3(context.Background(), config.S3Config{})
	assert.EqualError(t, err, "s3 bucket is required")
}
