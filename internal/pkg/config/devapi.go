package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// DevAPIConfig configures the development backend.
type DevAPIConfig struct {
	Port      string        `env:"DEVAPI_PORT,       default=8000"`
	JWTSecret string        `env:"DEVAPI_JWT_SECRET, default=wildguard-dev-secret"`
	TokenTTL  time.Duration `env:"DEVAPI_TOKEN_TTL,  default=24h"`
	LogLevel  string        `env:"LOG_LEVEL,         default=info"`
	LogPretty bool          `env:"LOG_PRETTY,        default=false"`
}

// LoadDevAPI reads the dev API configuration through lookuper.
func LoadDevAPI(ctx context.Context, lookuper envconfig.Lookuper) (*DevAPIConfig, error) {
	var cfg DevAPIConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load dev api configuration: %w", err)
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("config: DEVAPI_TOKEN_TTL must be positive")
	}
	return &cfg, nil
}

// CLIConfig holds the wildguard command's defaults. Flags override it.
type CLIConfig struct {
	APIURL       string        `env:"API_URL,       default=http://localhost:8000/api"`
	StateFile    string        `env:"STATE_FILE"`
	PollInterval time.Duration `env:"POLL_INTERVAL, default=30s"`
	LogLevel     string        `env:"LOG_LEVEL,     default=warn"`
}

// CLIPrefix namespaces the CLI's environment variables.
const CLIPrefix = "WILDGUARD_"

// LoadCLI reads WILDGUARD_* variables through lookuper.
func LoadCLI(ctx context.Context, lookuper envconfig.Lookuper) (*CLIConfig, error) {
	var cfg CLIConfig
	err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.PrefixLookuper(CLIPrefix, lookuper),
	})
	if err != nil {
		return nil, fmt.Errorf("config: failed to load cli configuration: %w", err)
	}
	return &cfg, nil
}
