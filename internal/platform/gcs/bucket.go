package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
)

// Bucket is the subset of bucket operations the adapters use.
type Bucket interface {
	// Create writes a new object and fails with errPreconditionFailed when
	// it already exists.
	Create(ctx context.Context, name string, data []byte, contentType, cacheControl string) error
	// Names lists object names with prefix.
	Names(ctx context.Context, prefix string) ([]string, error)
	// Read returns the object contents, or storage.ErrObjectNotExist.
	Read(ctx context.Context, name string) ([]byte, error)
}

var errPreconditionFailed = errors.New("object already exists")

type bucketHandle struct {
	handle *storage.BucketHandle
}

// NewBucket wraps a bucket of client.
func NewBucket(client *storage.Client, name string) Bucket {
	return &bucketHandle{handle: client.Bucket(name)}
}

func (b *bucketHandle) Create(ctx context.Context, name string, data []byte, contentType, cacheControl string) error {
	w := b.handle.Object(name).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = cacheControl

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return mapWriteError(err)
	}
	if err := w.Close(); err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (b *bucketHandle) Names(ctx context.Context, prefix string) ([]string, error) {
	it := b.handle.Objects(ctx, &storage.Query{Prefix: prefix})
	var names []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return names, nil
		}
		if err != nil {
			return nil, err
		}
		names = append(names, attrs.Name)
	}
}

func (b *bucketHandle) Read(ctx context.Context, name string) ([]byte, error) {
	r, err := b.handle.Object(name).NewReader(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return io.ReadAll(r)
}

func mapWriteError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusPreconditionFailed {
		return fmt.Errorf("%w: %v", errPreconditionFailed, err)
	}
	return err
}
