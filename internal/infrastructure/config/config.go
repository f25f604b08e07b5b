package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Upstream UpstreamConfig
	Session  SessionConfig
	Redis    RedisConfig
	Mongo    MongoConfig
}

type UpstreamConfig struct {
	// AuthURL is the base URL of the remote authentication endpoint.
	AuthURL string `env:"UPSTREAM_AUTH_URL, default=http://localhost:9000/auth"`
	// APIURL is the base URL the /api proxy forwards data requests to.
	APIURL  string        `env:"UPSTREAM_API_URL,  default=http://localhost:9000"`
	Timeout time.Duration `env:"UPSTREAM_TIMEOUT,  default=10s"`
}

type SessionConfig struct {
	CookieName   string        `env:"SESSION_COOKIE, default=bo_sid"`
	TTL          time.Duration `env:"SESSION_TTL,    default=24h"`
	AuditWorkers int           `env:"AUDIT_WORKERS,  default=4"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI,      default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,       default=session_gateway"`
	Username string `env:"MONGO_USERNAME"`
	Password string `env:"MONGO_PASSWORD"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// IsProduction reports whether the gateway runs with production hardening
// (secure cookies, JSON logs).
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
