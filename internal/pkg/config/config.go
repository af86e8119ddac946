package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is the whole runtime configuration, read once at startup. The
// storage and session drivers select which adapters get wired; nothing else
// in the codebase branches on them.
type Config struct {
	Port      string        `env:"PORT,       default=8080"`
	Env       string        `env:"ENV,        default=development"`
	LogLevel  string        `env:"LOG_LEVEL,  default=info"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=24h"`

	// StorageDriver: "badger" (embedded) or "mongo" (remote).
	StorageDriver string `env:"STORAGE_DRIVER, default=badger"`
	// SessionStore: "memory" (in-process) or "redis".
	SessionStore string `env:"SESSION_STORE,  default=memory"`

	Bootstrap BootstrapConfig
	Mongo     MongoConfig
	Badger    BadgerConfig
	Redis     RedisConfig
}

// BootstrapConfig names the admin account created when no users exist.
type BootstrapConfig struct {
	AdminUsername string `env:"BOOTSTRAP_ADMIN_USERNAME, default=admin"`
	AdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=diwan"`
}

type BadgerConfig struct {
	Path string `env:"BADGER_PATH, default=./data/diwan"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case "badger", "mongo":
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	switch c.SessionStore {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: unknown SESSION_STORE %q", c.SessionStore)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("config: JWT_SECRET is required")
	}
	if c.Bootstrap.AdminPassword == "" {
		return fmt.Errorf("config: BOOTSTRAP_ADMIN_PASSWORD is required")
	}
	return nil
}
