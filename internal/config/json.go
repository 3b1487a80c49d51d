package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] in the shape of the JSON
// config file. Durations accept either Go duration strings ("15m") or
// nanosecond numbers.
type StructuredJSONConfig struct {
	App struct {
		AccessTokenSecret  string   `json:"access_token_secret"`
		AccessTokenTTL     Duration `json:"access_token_ttl"`
		RefreshTokenSecret string   `json:"refresh_token_secret"`
		RefreshTokenTTL    Duration `json:"refresh_token_ttl"`
		TokenIssuer        string   `json:"token_issuer"`
		BcryptCost         int      `json:"bcrypt_cost"`
		LogLevel           string   `json:"log_level"`
		Environment        string   `json:"environment"`
		Version            string   `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Cache struct {
			Address  string   `json:"address"`
			Password string   `json:"password"`
			DB       int      `json:"db"`
			TTL      Duration `json:"ttl"`
		} `json:"cache,omitempty"`

		Avatars struct {
			Endpoint      string   `json:"endpoint"`
			AccessKey     string   `json:"access_key"`
			SecretKey     string   `json:"secret_key"`
			Bucket        string   `json:"bucket"`
			UseSSL        bool     `json:"use_ssl"`
			PresignTTL    Duration `json:"presign_ttl"`
			PublicBaseURL string   `json:"public_base_url"`
			MaxSize       int64    `json:"max_size"`
			ContentTypes  []string `json:"allowed_content_types"`
		} `json:"avatars,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress     string   `json:"http_address"`
		GRPCAddress     string   `json:"grpc_address"`
		RequestTimeout  Duration `json:"request_timeout"`
		InsecureCookies bool     `json:"insecure_cookies"`
		LoginRateLimit  int      `json:"login_rate_limit"`
		LoginRateWindow Duration `json:"login_rate_window"`
		BodyLimit       int64    `json:"body_limit"`
	} `json:"server,omitempty"`

	Observability struct {
		SentryDSN string `json:"sentry_dsn"`
	} `json:"observability,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`

	Client struct {
		StateDSN        string   `json:"state_dsn"`
		LogFile         string   `json:"log_file"`
		AutoRefresh     bool     `json:"auto_refresh"`
		RefreshInterval Duration `json:"refresh_interval"`
	} `json:"client,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	return jsonCfg.toStructured(), nil
}

func (j *StructuredJSONConfig) toStructured() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			AccessTokenSecret:  j.App.AccessTokenSecret,
			AccessTokenTTL:     time.Duration(j.App.AccessTokenTTL),
			RefreshTokenSecret: j.App.RefreshTokenSecret,
			RefreshTokenTTL:    time.Duration(j.App.RefreshTokenTTL),
			TokenIssuer:        j.App.TokenIssuer,
			BcryptCost:         j.App.BcryptCost,
			LogLevel:           j.App.LogLevel,
			Environment:        j.App.Environment,
			Version:            j.App.Version,
		},
		Storage: Storage{
			DB: DB{DSN: j.Storage.DB.DSN},
			Cache: Cache{
				Address:  j.Storage.Cache.Address,
				Password: j.Storage.Cache.Password,
				DB:       j.Storage.Cache.DB,
				TTL:      time.Duration(j.Storage.Cache.TTL),
			},
			Avatars: Avatars{
				Endpoint:      j.Storage.Avatars.Endpoint,
				AccessKey:     j.Storage.Avatars.AccessKey,
				SecretKey:     j.Storage.Avatars.SecretKey,
				Bucket:        j.Storage.Avatars.Bucket,
				UseSSL:        j.Storage.Avatars.UseSSL,
				PresignTTL:    time.Duration(j.Storage.Avatars.PresignTTL),
				PublicBaseURL: j.Storage.Avatars.PublicBaseURL,
				MaxSize:       j.Storage.Avatars.MaxSize,

				AllowedContentTypes: j.Storage.Avatars.ContentTypes,
			},
		},
		Server: Server{
			HTTPAddress:     j.Server.HTTPAddress,
			GRPCAddress:     j.Server.GRPCAddress,
			RequestTimeout:  time.Duration(j.Server.RequestTimeout),
			InsecureCookies: j.Server.InsecureCookies,
			LoginRateLimit:  j.Server.LoginRateLimit,
			LoginRateWindow: time.Duration(j.Server.LoginRateWindow),
			BodyLimit:       j.Server.BodyLimit,
		},
		Observability: Observability{SentryDSN: j.Observability.SentryDSN},
		Adapter: Adapter{
			HTTPAddress:    j.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(j.Adapter.RequestTimeout),
		},
		Client: Client{
			StateDSN:        j.Client.StateDSN,
			LogFile:         j.Client.LogFile,
			AutoRefresh:     j.Client.AutoRefresh,
			RefreshInterval: time.Duration(j.Client.RefreshInterval),
		},
	}
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration: %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
