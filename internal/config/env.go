package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// envConfig is a DTO used exclusively for environment lookups. Pointer fields
// with the noinit option stay nil when the variable is unset, so unset
// variables never clobber the defaults or the JSON layer.
type envConfig struct {
	EndpointURL    *string        `env:"SESSIONKEEPER_ENDPOINT_URL,noinit"`
	SessionStoreID *string        `env:"SESSIONKEEPER_STORE_ID,noinit"`
	SessionBackend *string        `env:"SESSIONKEEPER_BACKEND,noinit"`
	DatabasePath   *string        `env:"SESSIONKEEPER_DATABASE_PATH,noinit"`
	RedisAddr      *string        `env:"SESSIONKEEPER_REDIS_ADDR,noinit"`
	RedisDB        *int           `env:"SESSIONKEEPER_REDIS_DB,noinit"`
	RequestTimeout *time.Duration `env:"SESSIONKEEPER_REQUEST_TIMEOUT,noinit"`
}

// parseEnv overlays Config with values from environment variables.
// Panics on malformed values (caller should recover if desired).
func parseEnv(cfg *Config) {
	var ec envConfig
	if err := envconfig.Process(context.Background(), &ec); err != nil {
		panic(err)
	}

	if ec.EndpointURL != nil {
		cfg.EndpointURL = *ec.EndpointURL
	}
	if ec.SessionStoreID != nil {
		cfg.SessionStoreID = *ec.SessionStoreID
	}
	if ec.SessionBackend != nil {
		cfg.SessionBackend = *ec.SessionBackend
	}
	if ec.DatabasePath != nil {
		cfg.DatabasePath = *ec.DatabasePath
	}
	if ec.RedisAddr != nil {
		cfg.RedisAddr = *ec.RedisAddr
	}
	if ec.RedisDB != nil {
		cfg.RedisDB = *ec.RedisDB
	}
	if ec.RequestTimeout != nil {
		cfg.RequestTimeout = *ec.RequestTimeout
	}
}
