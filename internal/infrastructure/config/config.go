package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const modeDevelopment = "development"

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=production"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Mongo   MongoConfig
	JWT     JWTConfig
	Secrets ParameterStoreConfig
	Redis   RedisConfig
}

// MongoConfig.URI is only honoured in development; every other mode reads
// the connection string from the parameter store.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=fiap_users"`
}

// JWTConfig.DevKey follows the same rule as MongoConfig.URI.
type JWTConfig struct {
	DevKey   string        `env:"JWT_DEV_KEY"`
	Issuer   string        `env:"JWT_ISSUER"`
	Audience string        `env:"JWT_AUDIENCE"`
	TTL      time.Duration `env:"JWT_TTL, default=24h"`
}

// ParameterStoreConfig names the two SecureString parameters read at startup.
type ParameterStoreConfig struct {
	MongoURIParam string        `env:"SSM_MONGO_URI_PARAM"`
	JWTKeyParam   string        `env:"SSM_JWT_KEY_PARAM"`
	LookupTimeout time.Duration `env:"SSM_LOOKUP_TIMEOUT, default=15s"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR, default=localhost:6379"`
	DB       int           `env:"REDIS_DB,   default=0"`
	CacheTTL time.Duration `env:"CACHE_TTL,  default=5m"`
}

// IsDevelopment reports whether secrets come from local configuration
// instead of the parameter store. Development is opt-in: an unset ENV is
// production.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), modeDevelopment)
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
