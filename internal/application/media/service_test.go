package media

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *mockStorage) ListObjects(ctx context.Context, prefix string, limit int) ([]Object, error) {
	args := m.Called(ctx, prefix, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Object), args.Error(1)
}

func (m *mockStorage) DeleteObject(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockStorage) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func newService() (*MediaService, *mockStorage) {
	storage := new(mockStorage)
	svc := NewMediaService(storage, 0, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, storage
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, code, de.Code)
}

func TestMediaService_CreateUploadURL(t *testing.T) {
	svc, storage := newService()
	ctx := context.Background()
	expires := time.Date(2026, 3, 1, 12, 15, 0, 0, time.UTC)

	storage.On("GenerateUploadURL", ctx, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "images/2026/03/") && strings.HasSuffix(key, ".png")
	}), "image/png", 15*time.Minute).Return("https://s3.example.com/put?sig=1", expires, nil)

	resp, err := svc.CreateUploadURL(ctx, UploadURLRequest{Filename: "Logo.PNG", ContentType: "Image/PNG"})
	require.NoError(t, err)

	assert.Equal(t, "PUT", resp.Method)
	assert.Equal(t, "https://s3.example.com/put?sig=1", resp.UploadURL)
	assert.Equal(t, "https://cdn.example.com/"+resp.Key, resp.PublicURL)
	assert.Equal(t, "image/png", resp.Headers["Content-Type"])
	assert.Equal(t, expires, resp.ExpiresAt)
}

func TestMediaService_CreateUploadURL_ExtensionFollowsContentType(t *testing.T) {
	svc, storage := newService()
	ctx := context.Background()
	storage.On("GenerateUploadURL", ctx, mock.MatchedBy(func(key string) bool {
		return strings.HasSuffix(key, ".jpg")
	}), "image/jpeg", mock.Anything).Return("u", time.Time{}, nil)

	_, err := svc.CreateUploadURL(ctx, UploadURLRequest{Filename: "photo.exe", ContentType: "image/jpeg"})
	require.NoError(t, err)
	storage.AssertExpectations(t)
}

func TestMediaService_CreateUploadURL_RejectsNonImages(t *testing.T) {
	svc, storage := newService()

	_, err := svc.CreateUploadURL(context.Background(), UploadURLRequest{Filename: "a.pdf", ContentType: "application/pdf"})

	assertCode(t, err, "UNSUPPORTED_MEDIA_TYPE")
	storage.AssertNotCalled(t, "GenerateUploadURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMediaService_ListImages(t *testing.T) {
	svc, storage := newService()
	ctx := context.Background()
	modified := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	storage.On("ListObjects", ctx, "images/2026/", 200).Return([]Object{
		{Key: "images/2026/a.png", Size: 1024, LastModified: modified},
	}, nil)

	images, err := svc.ListImages(ctx, ListQuery{Prefix: "images/2026/"})
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "https://cdn.example.com/images/2026/a.png", images[0].URL)
	assert.Equal(t, int64(1024), images[0].Size)
}

func TestMediaService_ListImages_StorageError(t *testing.T) {
	svc, storage := newService()
	ctx := context.Background()
	storage.On("ListObjects", ctx, "images/", 10).Return(nil, errors.New("access denied"))

	_, err := svc.ListImages(ctx, ListQuery{Limit: 10})
	assert.EqualError(t, err, "access denied")
}

func TestMediaService_DeleteImage(t *testing.T) {
	svc, storage := newService()
	ctx := context.Background()
	storage.On("DeleteObject", ctx, "images/2026/a.png").Return(nil)

	require.NoError(t, svc.DeleteImage(ctx, "/images/2026/a.png"))

	for _, key := range []string{"", "images/", "config/secrets.json", "images/../config.json"} {
		assertCode(t, svc.DeleteImage(ctx, key), "INVALID_KEY")
	}
	storage.AssertNumberOfCalls(t, "DeleteObject", 1)
}
