package gcs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/phrazzld/wallet-wrapped/internal/store"
)

// DefaultPublicBaseURL serves public objects of a bucket.
const DefaultPublicBaseURL = "https://storage.googleapis.com"

const (
	mediaPrefix       = "media/"
	mediaCacheControl = "public, max-age=31536000, immutable"
	deckCacheControl  = "no-cache"
)

// ObjectStore implements store.ObjectStore and generation.Uploader on a
// bucket.
type ObjectStore struct {
	bucket  Bucket
	baseURL string
	logger  *slog.Logger
}

// NewObjectStore creates an ObjectStore. Object URLs are
// <publicBaseURL>/<key>; an empty publicBaseURL means
// https://storage.googleapis.com/<bucketName>.
func NewObjectStore(bucket Bucket, bucketName, publicBaseURL string, logger *slog.Logger) (*ObjectStore, error) {
	if bucket == nil {
		return nil, errors.New("bucket cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	base := strings.TrimRight(publicBaseURL, "/")
	if base == "" {
		if bucketName == "" {
			return nil, errors.New("bucket name or public base URL is required")
		}
		base = DefaultPublicBaseURL + "/" + bucketName
	}
	return &ObjectStore{
		bucket:  bucket,
		baseURL: base,
		logger:  logger.With("component", "gcs_objects"),
	}, nil
}

// Put implements store.ObjectStore.
func (s *ObjectStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := s.bucket.Create(ctx, key, data, contentType, deckCacheControl); err != nil {
		if errors.Is(err, errPreconditionFailed) {
			return "", fmt.Errorf("%w: %s", store.ErrObjectExists, key)
		}
		return "", fmt.Errorf("write object %s: %w", key, err)
	}
	return s.url(key), nil
}

// List implements store.ObjectStore.
func (s *ObjectStore) List(ctx context.Context, prefix string) ([]string, error) {
	names, err := s.bucket.Names(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list objects %s: %w", prefix, err)
	}
	return names, nil
}

// Get implements store.ObjectStore.
func (s *ObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.bucket.Read(ctx, key)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("%w: %s", store.ErrObjectNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}
	return data, nil
}

// Upload stores generated media under media/ and returns its public URL.
func (s *ObjectStore) Upload(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	key := mediaPrefix + strings.TrimLeft(name, "/")
	if err := s.bucket.Create(ctx, key, data, contentType, mediaCacheControl); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	url := s.url(key)
	s.logger.InfoContext(ctx, "media uploaded", "key", key, "bytes", len(data))
	return url, nil
}

func (s *ObjectStore) url(key string) string {
	return s.baseURL + "/" + key
}
