package media

import (
	"context"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// KeyPrefix is where library images live in the bucket
const KeyPrefix = "images/"

var allowedTypes = map[string][]string{
	"image/jpeg":    {".jpg", ".jpeg"},
	"image/png":     {".png"},
	"image/webp":    {".webp"},
	"image/gif":     {".gif"},
	"image/svg+xml": {".svg"},
}

// Object is a stored file
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectStorage is the bucket behind the image library
type ObjectStorage interface {
	GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error)
	ListObjects(ctx context.Context, prefix string, limit int) ([]Object, error)
	DeleteObject(ctx context.Context, key string) error
	// PublicURL is the address the object is served from once uploaded
	PublicURL(key string) string
}

// MediaService manages the admin image library
type MediaService struct {
	storage ObjectStorage
	expiry  time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// NewMediaService creates a new MediaService. expiry bounds presigned URLs.
func NewMediaService(storage ObjectStorage, expiry time.Duration, logger *zap.Logger) *MediaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &MediaService{
		storage: storage,
		expiry:  expiry,
		logger:  logger,
		now:     time.Now,
	}
}

// CreateUploadURL issues a presigned PUT for a new image under a fresh key
func (s *MediaService) CreateUploadURL(ctx context.Context, req UploadURLRequest) (*UploadURLResponse, error) {
	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	exts, ok := allowedTypes[contentType]
	if !ok {
		return nil, shared.NewDomainError("UNSUPPORTED_MEDIA_TYPE", "Only JPEG, PNG, WebP, GIF and SVG images are accepted")
	}
	ext := strings.ToLower(path.Ext(req.Filename))
	if !slices.Contains(exts, ext) {
		ext = exts[0]
	}

	now := s.now().UTC()
	key := KeyPrefix + now.Format("2006/01/") + uuid.New().String() + ext
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType, s.expiry)
	if err != nil {
		s.logger.Error("Failed to presign image upload", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	return &UploadURLResponse{
		Key:       key,
		UploadURL: url,
		Method:    "PUT",
		Headers:   map[string]string{"Content-Type": contentType},
		PublicURL: s.storage.PublicURL(key),
		ExpiresAt: expiresAt,
	}, nil
}

// ListImages lists images whose key starts with the library prefix plus q.Prefix
func (s *MediaService) ListImages(ctx context.Context, q ListQuery) ([]ImageResponse, error) {
	if q.Limit == 0 {
		q.Limit = 200
	}
	prefix := KeyPrefix + strings.TrimPrefix(strings.TrimSpace(q.Prefix), KeyPrefix)
	objects, err := s.storage.ListObjects(ctx, prefix, q.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]ImageResponse, len(objects))
	for i, o := range objects {
		out[i] = ImageResponse{
			Key:          o.Key,
			URL:          s.storage.PublicURL(o.Key),
			Size:         o.Size,
			LastModified: o.LastModified,
		}
	}
	return out, nil
}

// DeleteImage removes an image from the library. Keys outside the library are rejected.
func (s *MediaService) DeleteImage(ctx context.Context, key string) error {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if !strings.HasPrefix(key, KeyPrefix) || strings.Contains(key, "..") || key == KeyPrefix {
		return shared.NewDomainError("INVALID_KEY", "Key is not part of the image library")
	}
	if err := s.storage.DeleteObject(ctx, key); err != nil {
		return err
	}
	s.logger.Info("Image deleted", zap.String("key", key))
	return nil
}
