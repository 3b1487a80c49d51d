package config

import "time"

const (
	defaultAccessTokenTTL  = 15 * time.Minute
	defaultRefreshTokenTTL = 10 * 24 * time.Hour
	defaultTokenIssuer     = "go-todo-keeper"
	defaultBcryptCost      = 10
	defaultEnvironment     = "development"

	defaultRequestTimeout  = 30 * time.Second
	defaultLoginRateLimit  = 10
	defaultLoginRateWindow = time.Minute
	defaultBodyLimit       = 16 << 10

	defaultCacheTTL          = 5 * time.Minute
	defaultAvatarPresignTTL  = 15 * time.Minute
	defaultAvatarMaxSize     = 5 << 20
	defaultAdapterAddress    = "http://localhost:8080"
	defaultAdapterTimeout    = 10 * time.Second
	defaultClientStateDSN    = "todo-client.db"
	defaultClientRefreshTick = 30 * time.Second
)

// applyDefaults fills zero-valued settings that have a sensible default.
func (cfg *StructuredConfig) applyDefaults() {
	setDefault(&cfg.App.AccessTokenTTL, defaultAccessTokenTTL)
	setDefault(&cfg.App.RefreshTokenTTL, defaultRefreshTokenTTL)
	setDefault(&cfg.App.TokenIssuer, defaultTokenIssuer)
	setDefault(&cfg.App.BcryptCost, defaultBcryptCost)
	setDefault(&cfg.App.Environment, defaultEnvironment)

	setDefault(&cfg.Server.RequestTimeout, defaultRequestTimeout)
	setDefault(&cfg.Server.LoginRateLimit, defaultLoginRateLimit)
	setDefault(&cfg.Server.LoginRateWindow, defaultLoginRateWindow)
	setDefault(&cfg.Server.BodyLimit, int64(defaultBodyLimit))

	setDefault(&cfg.Storage.Cache.TTL, defaultCacheTTL)
	setDefault(&cfg.Storage.Avatars.PresignTTL, defaultAvatarPresignTTL)
	setDefault(&cfg.Storage.Avatars.MaxSize, int64(defaultAvatarMaxSize))
	if len(cfg.Storage.Avatars.AllowedContentTypes) == 0 {
		cfg.Storage.Avatars.AllowedContentTypes = []string{"image/jpeg", "image/png", "image/webp"}
	}

	setDefault(&cfg.Adapter.HTTPAddress, defaultAdapterAddress)
	setDefault(&cfg.Adapter.RequestTimeout, defaultAdapterTimeout)
	setDefault(&cfg.Client.StateDSN, defaultClientStateDSN)
	setDefault(&cfg.Client.RefreshInterval, defaultClientRefreshTick)
}

func setDefault[T comparable](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}
