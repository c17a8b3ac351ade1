package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Session store and audit sink choices.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"

	AuditLog   = "log"
	AuditMongo = "mongo"
)

// Config is the console gateway configuration.
type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	API     APIConfig
	Session SessionConfig
	Audit   AuditConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type APIConfig struct {
	BaseURL      string        `env:"API_BASE_URL,  default=http://localhost:8000/api"`
	Timeout      time.Duration `env:"API_TIMEOUT,   default=15s"`
	PollInterval time.Duration `env:"POLL_INTERVAL, default=30s"`
}

type SessionConfig struct {
	Store        string        `env:"SESSION_STORE, default=memory"`
	TTL          time.Duration `env:"SESSION_TTL,   default=168h"`
	CookieSecure bool          `env:"COOKIE_SECURE, default=false"`
}

type AuditConfig struct {
	Sink    string `env:"AUDIT_SINK,    default=log"`
	Workers int    `env:"AUDIT_WORKERS, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=wildguard_console"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,        default=0"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=0"`
}

// Validate rejects unknown store and sink names.
func (c *Config) Validate() error {
	switch c.Session.Store {
	case StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("config: unknown SESSION_STORE %q", c.Session.Store)
	}
	switch c.Audit.Sink {
	case AuditLog, AuditMongo:
	default:
		return fmt.Errorf("config: unknown AUDIT_SINK %q", c.Audit.Sink)
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

// LoadWith reads configuration through lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
