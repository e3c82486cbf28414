package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	APIBaseURL            string `env:"AGRICHAT_API_URL" envDefault:"https://api.cropcure.app"`
	DataDir               string `env:"AGRICHAT_DATA_DIR"`
	LogFile               string `env:"AGRICHAT_LOG_FILE"`
	LogLevel              string `env:"LOG_LEVEL" envDefault:"info"`
	PollIntervalMS        int    `env:"AGRICHAT_POLL_INTERVAL_MS" envDefault:"1500"`
	RequestTimeoutSeconds int    `env:"AGRICHAT_REQUEST_TIMEOUT_SECONDS" envDefault:"15"`
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// StorePath is the location of the local credential database.
func (c *Config) StorePath() string {
	return filepath.Join(c.DataDir, "agrichat.db")
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.DataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		cfg.DataDir = filepath.Join(base, "agrichat")
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.DataDir, "agrichat.log")
	}

	return &cfg, nil
}
