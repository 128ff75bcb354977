package erpclient

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config carries the environment-provided client settings. The TTL policy
// and invalidation rules stay in code; only deployment-specific values live
// in the environment.
type Config struct {
	BaseURL  string        `env:"MIETWERK_BASE_URL"`
	Timeout  time.Duration `env:"MIETWERK_HTTP_TIMEOUT" envDefault:"10s"`
	Token    string        `env:"MIETWERK_API_TOKEN"`
	CacheTTL time.Duration `env:"MIETWERK_CACHE_TTL" envDefault:"5m"`
}

// ConfigFromEnv reads client settings from MIETWERK_* variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("erpclient: parse env: %w", err)
	}
	return cfg, nil
}

// Options converts the parsed configuration into client options.
func (c Config) Options() []ClientOption {
	opts := []ClientOption{WithTimeout(c.Timeout)}
	if c.BaseURL != "" {
		opts = append(opts, WithBaseURL(c.BaseURL))
	}
	if c.Token != "" {
		opts = append(opts, WithToken(c.Token))
	}
	if c.CacheTTL > 0 && c.CacheTTL != DefaultPolicy.Default {
		policy := DefaultPolicy
		policy.Default = c.CacheTTL
		opts = append(opts, WithPolicy(policy))
	}
	return opts
}
