package store

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-todo-keeper/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectStore struct {
	presignErr error
	objects    map[string]minio.ObjectInfo
	lastKey    string
}

func (f *fakeObjectStore) PresignedPutObject(_ context.Context, bucket, object string, _ time.Duration) (*url.URL, error) {
	if f.presignErr != nil {
		return nil, f.presignErr
	}
	f.lastKey = object
	return url.Parse("http://minio.local/" + bucket + "/" + object + "?X-Amz-Signature=sig")
}

func (f *fakeObjectStore) StatObject(_ context.Context, _, object string, _ minio.StatObjectOptions) (minio.ObjectInfo, error) {
	info, ok := f.objects[object]
	if !ok {
		return minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404}
	}
	return info, nil
}

func testAvatarsConfig() config.Avatars {
	return config.Avatars{
		Bucket:              "avatars",
		PresignTTL:          15 * time.Minute,
		PublicBaseURL:       "https://cdn.example.com/",
		MaxSize:             1024,
		AllowedContentTypes: []string{"image/png", "image/jpeg"},
	}
}

func TestAvatarStorage_UploadURL(t *testing.T) {
	store := &fakeObjectStore{}
	s := newAvatarStorage(store, testAvatarsConfig())
	fixed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	upload, err := s.UploadURL(context.Background(), 7, "image/png", 512)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(upload.Key, "avatars/7/"))
	assert.True(t, strings.HasSuffix(upload.Key, ".png"))
	assert.Equal(t, store.lastKey, upload.Key)
	assert.Contains(t, upload.UploadURL, "X-Amz-Signature")
	assert.Equal(t, "image/png", upload.RequiredHeader["Content-Type"])
	assert.Equal(t, "512", upload.RequiredHeader["Content-Length"])
	assert.Equal(t, fixed.Add(15*time.Minute), upload.ExpiresAt)
}

func TestAvatarStorage_UploadURL_Rejects(t *testing.T) {
	s := newAvatarStorage(&fakeObjectStore{}, testAvatarsConfig())

	_, err := s.UploadURL(context.Background(), 7, "image/gif", 10)
	assert.ErrorIs(t, err, ErrInvalidAvatar)

	_, err = s.UploadURL(context.Background(), 7, "image/png", 0)
	assert.ErrorIs(t, err, ErrInvalidAvatar)

	_, err = s.UploadURL(context.Background(), 7, "image/png", 4096)
	assert.ErrorIs(t, err, ErrInvalidAvatar)
}

func TestAvatarStorage_UploadURL_PresignFailure(t *testing.T) {
	s := newAvatarStorage(&fakeObjectStore{presignErr: errors.New("minio down")}, testAvatarsConfig())

	_, err := s.UploadURL(context.Background(), 7, "image/png", 10)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidAvatar)
}

func TestAvatarStorage_ConfirmUpload(t *testing.T) {
	store := &fakeObjectStore{objects: map[string]minio.ObjectInfo{
		"avatars/7/ok.png":    {Size: 100, ContentType: "image/png"},
		"avatars/7/big.png":   {Size: 5000, ContentType: "image/png"},
		"avatars/7/wrong.gif": {Size: 100, ContentType: "image/gif"},
	}}
	s := newAvatarStorage(store, testAvatarsConfig())
	ctx := context.Background()

	u, err := s.ConfirmUpload(ctx, 7, "avatars/7/ok.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/avatars/7/ok.png", u)

	_, err = s.ConfirmUpload(ctx, 8, "avatars/7/ok.png")
	assert.ErrorIs(t, err, ErrInvalidAvatar)

	_, err = s.ConfirmUpload(ctx, 7, "avatars/7/../8/x.png")
	assert.ErrorIs(t, err, ErrInvalidAvatar)

	_, err = s.ConfirmUpload(ctx, 7, "avatars/7/missing.png")
	assert.ErrorIs(t, err, ErrAvatarNotFound)

	_, err = s.ConfirmUpload(ctx, 7, "avatars/7/big.png")
	assert.ErrorIs(t, err, ErrInvalidAvatar)

	_, err = s.ConfirmUpload(ctx, 7, "avatars/7/wrong.gif")
	assert.ErrorIs(t, err, ErrInvalidAvatar)
}

func TestAvatarStorage_ConfirmUpload_WithoutPublicBase(t *testing.T) {
	cfg := testAvatarsConfig()
	cfg.PublicBaseURL = ""
	store := &fakeObjectStore{objects: map[string]minio.ObjectInfo{"avatars/7/ok.png": {Size: 1}}}

	u, err := newAvatarStorage(store, cfg).ConfirmUpload(context.Background(), 7, "avatars/7/ok.png")
	require.NoError(t, err)
	assert.Equal(t, "avatars/7/ok.png", u)
}
