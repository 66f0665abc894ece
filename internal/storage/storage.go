package storage

import (
	"context"
	"io"
	"strings"
	"time"
)

// Package storage contains blob storage clients for question attachments (S3-compatible and in-memory).
// Implementations stream uploads and never touch local disk.

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known, or -1 when unknown.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo describes a stored object. URL is the stable reference persisted in documents.
type ObjectInfo struct {
	Key          string
	URL          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the blob store used for question and answer images.
type Storage interface {
	// Put uploads an object under key and returns its info, including the retrieval URL.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Delete removes an object by key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// URL returns the retrieval URL for key.
	URL(key string) string
	// KeyFromURL maps a URL produced by this store back to its key.
	KeyFromURL(rawURL string) (string, bool)
}

// urlMapper turns keys into URLs under a fixed base and back.
type urlMapper struct {
	base string
}

func newURLMapper(base string) urlMapper {
	return urlMapper{base: strings.TrimRight(base, "/")}
}

func (m urlMapper) URL(key string) string {
	return m.base + "/" + strings.TrimLeft(key, "/")
}

func (m urlMapper) KeyFromURL(rawURL string) (string, bool) {
	key, ok := strings.CutPrefix(rawURL, m.base+"/")
	if !ok || key == "" {
		return "", false
	}
	return key, true
}
