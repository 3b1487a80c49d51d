package store

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-todo-keeper/internal/config"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/internal/utils"
	"github.com/MKhiriev/go-todo-keeper/models"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// objectStore is the subset of *minio.Client used for avatars.
type objectStore interface {
	PresignedPutObject(ctx context.Context, bucket, object string, expires time.Duration) (*url.URL, error)
	StatObject(ctx context.Context, bucket, object string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

// avatarStorage hands out presigned PUT URLs under
// "avatars/<userID>/<uuidv7><ext>" and verifies uploads before they are
// attached to a profile.
type avatarStorage struct {
	client objectStore
	cfg    config.Avatars
	ids    *utils.UUIDGenerator
	now    func() time.Time
}

// NewAvatarStorage connects to the S3-compatible endpoint in cfg and checks
// that the bucket exists.
func NewAvatarStorage(ctx context.Context, cfg config.Avatars, log *logger.Logger) (AvatarStorage, error) {
	endpoint := cfg.Endpoint
	secure := cfg.UseSSL
	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" && u.Host != "" {
		endpoint = u.Host
		secure = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		log.Err(err).Str("func", "NewAvatarStorage").Msg("error creating minio client")
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		log.Err(err).Str("func", "NewAvatarStorage").Msg("error checking avatar bucket")
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("avatar bucket %q does not exist", cfg.Bucket)
	}
	log.Info().Str("func", "NewAvatarStorage").Str("bucket", cfg.Bucket).Msg("avatar storage ready")

	return newAvatarStorage(client, cfg), nil
}

func newAvatarStorage(client objectStore, cfg config.Avatars) *avatarStorage {
	return &avatarStorage{client: client, cfg: cfg, ids: utils.NewUUIDGenerator(), now: time.Now}
}

func (s *avatarStorage) UploadURL(ctx context.Context, userID int64, contentType string, contentLength int64) (models.AvatarUpload, error) {
	if contentLength <= 0 || contentLength > s.cfg.MaxSize {
		return models.AvatarUpload{}, fmt.Errorf("%w: size %d is out of range", ErrInvalidAvatar, contentLength)
	}
	if !slices.Contains(s.cfg.AllowedContentTypes, contentType) {
		return models.AvatarUpload{}, fmt.Errorf("%w: content type %q is not allowed", ErrInvalidAvatar, contentType)
	}

	key := path.Join(avatarPrefix(userID), s.ids.Generate()+extensionFor(contentType))

	u, err := s.client.PresignedPutObject(ctx, s.cfg.Bucket, key, s.cfg.PresignTTL)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*avatarStorage.UploadURL").Msg("presign failed")
		return models.AvatarUpload{}, fmt.Errorf("presign avatar upload: %w", err)
	}

	return models.AvatarUpload{
		UploadURL: u.String(),
		Key:       key,
		RequiredHeader: map[string]string{
			"Content-Type":   contentType,
			"Content-Length": strconv.FormatInt(contentLength, 10),
		},
		ExpiresAt: s.now().Add(s.cfg.PresignTTL),
	}, nil
}

// ConfirmUpload checks that key belongs to userID and that the uploaded
// object satisfies the size and type limits.
func (s *avatarStorage) ConfirmUpload(ctx context.Context, userID int64, key string) (string, error) {
	if !strings.HasPrefix(key, avatarPrefix(userID)+"/") || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: foreign key", ErrInvalidAvatar)
	}

	info, err := s.client.StatObject(ctx, s.cfg.Bucket, key, minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
			return "", ErrAvatarNotFound
		}
		logger.FromContext(ctx).Err(err).Str("func", "*avatarStorage.ConfirmUpload").Msg("stat failed")
		return "", fmt.Errorf("stat avatar: %w", err)
	}

	if info.Size <= 0 || info.Size > s.cfg.MaxSize {
		return "", fmt.Errorf("%w: uploaded size %d is out of range", ErrInvalidAvatar, info.Size)
	}
	if info.ContentType != "" && !slices.Contains(s.cfg.AllowedContentTypes, info.ContentType) {
		return "", fmt.Errorf("%w: uploaded content type %q is not allowed", ErrInvalidAvatar, info.ContentType)
	}

	if s.cfg.PublicBaseURL == "" {
		return key, nil
	}
	return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + key, nil
}

func avatarPrefix(userID int64) string {
	return "avatars/" + strconv.FormatInt(userID, 10)
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
