package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port               string `env:"PORT,                 default=8080"`
	Env                string `env:"ENV,                  default=development"`
	JWTSecret          string `env:"JWT_SECRET"`
	AuditSigningSecret string `env:"AUDIT_SIGNING_SECRET"`
	LogLevel           string `env:"LOG_LEVEL,            default=info"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Postgres PostgresConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=matters_platform"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type PostgresConfig struct {
	DSN string `env:"POSTGRES_DSN, default=postgres://localhost:5432/matters?sslmode=disable"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// IsProduction gates the fail-closed tenant fallback and audit stack traces.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
