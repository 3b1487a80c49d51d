package service

import (
	"fmt"

	"github.com/MKhiriev/go-todo-keeper/internal/config"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/internal/store"
)

type Services struct {
	AuthService    AuthService
	TokenService   TokenService
	TodoService    TodoService
	AvatarService  AvatarService
	AppInfoService AppInfoService
}

// NewServices builds the service layer over storages. Auth and todo services
// are wrapped with request validation.
func NewServices(storages *store.Storages, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	tokenService := NewTokenService(storages.UserRepository, cfg.App, logger)

	return &Services{
		AuthService: NewAuthValidationService().
			Wrap(NewAuthService(storages.UserRepository, tokenService, cfg.App, logger)),
		TokenService: tokenService,
		TodoService: NewTodoValidationService().
			Wrap(NewTodoService(storages.TodoRepository, logger)),
		AvatarService:  NewAvatarService(storages.AvatarStorage, storages.UserRepository, logger),
		AppInfoService: appInfo,
	}, nil
}
