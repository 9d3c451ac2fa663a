package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo MongoConfig
	Redis RedisConfig
	Auth  AuthConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=samara_portal"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// AuthConfig groups the session and role policy knobs. DefaultRole is the
// role assigned to profiles created on first login.
type AuthConfig struct {
	DefaultRole      string        `env:"AUTH_DEFAULT_ROLE,      default=family"`
	SessionTTL       time.Duration `env:"AUTH_SESSION_TTL,       default=24h"`
	ResolverTTL      time.Duration `env:"AUTH_RESOLVER_TTL,      default=30m"`
	LinkTTL          time.Duration `env:"AUTH_LINK_TTL,          default=15m"`
	LinkBaseURL      string        `env:"AUTH_LINK_BASE_URL,     default=http://localhost:8080/auth/magic"`
	LoginPath        string        `env:"AUTH_LOGIN_PATH,        default=/login"`
	UnauthorizedPath string        `env:"AUTH_UNAUTHORIZED_PATH, default=/unauthorized"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
