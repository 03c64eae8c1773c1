package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/phrazzld/wallet-wrapped/internal/store"
)

// URLScheme prefixes the URLs returned by an ObjectStore without a base URL.
const URLScheme = "mem://"

// ObjectStore implements store.ObjectStore in memory.
type ObjectStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	baseURL string
}

// NewObjectStore returns an empty ObjectStore. Object URLs are baseURL + "/" +
// key, or mem://key when baseURL is empty.
func NewObjectStore(baseURL string) *ObjectStore {
	return &ObjectStore{
		objects: make(map[string][]byte),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *ObjectStore) url(key string) string {
	if s.baseURL == "" {
		return URLScheme + key
	}
	return s.baseURL + "/" + key
}

// Put implements store.ObjectStore.
func (s *ObjectStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.objects[key]; exists {
		return "", fmt.Errorf("%w: %s", store.ErrObjectExists, key)
	}
	s.objects[key] = append([]byte(nil), data...)
	return s.url(key), nil
}

// List implements store.ObjectStore.
func (s *ObjectStore) List(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for k := range s.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// Get implements store.ObjectStore.
func (s *ObjectStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrObjectNotFound, key)
	}
	return append([]byte(nil), data...), nil
}

// Upload implements generation.Uploader. Media is stored under media/. Card
// media must be HTTPS, so only use it as an uploader with an https base URL.
func (s *ObjectStore) Upload(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	return s.Put(ctx, "media/"+name, data, contentType)
}
