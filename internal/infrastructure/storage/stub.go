package storage

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/storefront/backend/internal/application/media"
)

// StubObjectStorage stands in for S3 when storage is disabled.
// It hands out deterministic local URLs and remembers keys it issued uploads for.
type StubObjectStorage struct {
	// BaseURL prefixes every generated URL
	BaseURL string

	mu      sync.Mutex
	objects map[string]media.Object
	now     func() time.Time
}

// NewStubObjectStorage creates a new StubObjectStorage
func NewStubObjectStorage(baseURL string) *StubObjectStorage {
	if baseURL == "" {
		baseURL = "http://localhost:8080/static"
	}
	return &StubObjectStorage{
		BaseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string]media.Object),
		now:     time.Now,
	}
}

var _ media.ObjectStorage = (*StubObjectStorage)(nil)

// GenerateUploadURL records the key and returns a local upload URL
func (s *StubObjectStorage) GenerateUploadURL(
	ctx context.Context,
	key, contentType string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	now := s.now()
	s.mu.Lock()
	s.objects[key] = media.Object{Key: key, LastModified: now}
	s.mu.Unlock()

	return s.BaseURL + "/upload/" + key, now.Add(expiresIn), nil
}

// ListObjects lists recorded keys under prefix in key order
func (s *StubObjectStorage) ListObjects(ctx context.Context, prefix string, limit int) ([]media.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]media.Object, 0, len(s.objects))
	for key, obj := range s.objects {
		if strings.HasPrefix(key, prefix) {
			out = append(out, obj)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// DeleteObject forgets a key
func (s *StubObjectStorage) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// PublicURL returns the local URL for key
func (s *StubObjectStorage) PublicURL(key string) string {
	return s.BaseURL + "/" + strings.TrimPrefix(key, "/")
}
