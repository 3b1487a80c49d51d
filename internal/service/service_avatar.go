package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/internal/store"
	"github.com/MKhiriev/go-todo-keeper/internal/validators"
	"github.com/MKhiriev/go-todo-keeper/models"
)

type avatarService struct {
	avatarStorage  store.AvatarStorage
	userRepository store.UserRepository
	validator      validators.Validator

	logger *logger.Logger
}

// NewAvatarService wires the avatar flow. avatarStorage may be nil, in which
// case every call fails with store.ErrAvatarsDisabled.
func NewAvatarService(avatarStorage store.AvatarStorage, userRepository store.UserRepository, logger *logger.Logger) AvatarService {
	return &avatarService{
		avatarStorage:  avatarStorage,
		userRepository: userRepository,
		validator:      validators.NewRequestValidator(),
		logger:         logger,
	}
}

func (s *avatarService) CreateUploadURL(ctx context.Context, userID int64, req models.AvatarUploadRequest) (models.AvatarUpload, error) {
	if s.avatarStorage == nil {
		return models.AvatarUpload{}, store.ErrAvatarsDisabled
	}
	if err := s.validator.Validate(ctx, req); err != nil {
		return models.AvatarUpload{}, fmt.Errorf("error during avatar upload request validation: %w", err)
	}

	upload, err := s.avatarStorage.UploadURL(ctx, userID, req.ContentType, req.ContentLength)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*avatarService.CreateUploadURL").Int64("user_id", userID).Msg("error presigning avatar upload")
		return models.AvatarUpload{}, fmt.Errorf("error presigning avatar upload: %w", err)
	}

	return upload, nil
}

// ConfirmUpload checks the uploaded object and stores its URL on the user.
func (s *avatarService) ConfirmUpload(ctx context.Context, userID int64, req models.AvatarConfirmRequest) (models.User, error) {
	if s.avatarStorage == nil {
		return models.User{}, store.ErrAvatarsDisabled
	}
	if err := s.validator.Validate(ctx, req); err != nil {
		return models.User{}, fmt.Errorf("error during avatar confirm request validation: %w", err)
	}

	url, err := s.avatarStorage.ConfirmUpload(ctx, userID, req.Key)
	if err != nil {
		return models.User{}, fmt.Errorf("error confirming avatar upload: %w", err)
	}

	user, err := s.userRepository.UpdateAvatar(ctx, userID, url)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*avatarService.ConfirmUpload").Int64("user_id", userID).Msg("error saving avatar url")
		return models.User{}, fmt.Errorf("error saving avatar url: %w", err)
	}

	return user.Public(), nil
}
