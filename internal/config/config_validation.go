// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"
)

// validate checks that the final merged [StructuredConfig] satisfies all
// server invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	app := cfg.App
	if app.AccessTokenSecret == "" || app.RefreshTokenSecret == "" {
		return fmt.Errorf("%w: access and refresh token secrets are required", ErrInvalidAppConfigs)
	}
	if app.AccessTokenSecret == app.RefreshTokenSecret {
		return fmt.Errorf("%w: access and refresh token secrets must differ", ErrInvalidAppConfigs)
	}
	if app.AccessTokenTTL <= 0 || app.RefreshTokenTTL <= 0 {
		return fmt.Errorf("%w: token lifetimes must be positive", ErrInvalidAppConfigs)
	}

	if cfg.Storage.DB.DSN == "" {
		return fmt.Errorf("%w: database DSN is required", ErrInvalidStorageConfigs)
	}
	if av := cfg.Storage.Avatars; av.Endpoint != "" && (av.Bucket == "" || av.AccessKey == "" || av.SecretKey == "") {
		return fmt.Errorf("%w: avatar bucket requires bucket name and credentials", ErrInvalidStorageConfigs)
	}

	if cfg.Server.HTTPAddress == "" {
		return fmt.Errorf("%w: http address is required", ErrInvalidServerConfigs)
	}
	if cfg.Server.LoginRateLimit < 1 || cfg.Server.LoginRateWindow <= 0 {
		return fmt.Errorf("%w: login rate limit must be positive", ErrInvalidServerConfigs)
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DSN == "" || strings.Contains(cfg.Storage.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}

	return nil
}
