package service

import (
	"context"

	"github.com/MKhiriev/go-todo-keeper/internal/config"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/models"
)

const healthMessage = "Server is running, and the routes are working fine!"

type appInfoService struct {
	appVersion  string
	environment string

	logger *logger.Logger
}

func NewAppInfoService(cfg config.App, logger *logger.Logger) (AppInfoService, error) {
	if cfg.Version == "" {
		return nil, ErrVersionIsNotSpecified
	}

	return &appInfoService{
		appVersion:  cfg.Version,
		environment: cfg.Environment,
		logger:      logger,
	}, nil
}

func (s *appInfoService) GetAppVersion(ctx context.Context) string {
	return s.appVersion
}

// Health answers the liveness probe. It never touches storage.
func (s *appInfoService) Health(ctx context.Context) models.HealthInfo {
	logger.FromContext(ctx).Debug().
		Str("func", "*appInfoService.Health").
		Str("environment", s.environment).
		Msg("health check")

	return models.HealthInfo{
		Message: healthMessage,
		Version: s.appVersion,
	}
}
