package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigMethods(t *testing.T) {
	t.Run("PollInterval converts milliseconds to duration", func(t *testing.T) {
		cfg := &Config{PollIntervalMS: 1500}
		assert.Equal(t, 1500*time.Millisecond, cfg.PollInterval())
	})

	t.Run("RequestTimeout converts seconds to duration", func(t *testing.T) {
		cfg := &Config{RequestTimeoutSeconds: 15}
		assert.Equal(t, 15*time.Second, cfg.RequestTimeout())
	})

	t.Run("StorePath joins data dir", func(t *testing.T) {
		cfg := &Config{DataDir: "/tmp/agrichat"}
		assert.Equal(t, filepath.Join("/tmp/agrichat", "agrichat.db"), cfg.StorePath())
	})
}

func TestLoad(t *testing.T) {
	originalEnv := map[string]string{
		"AGRICHAT_API_URL":                 os.Getenv("AGRICHAT_API_URL"),
		"AGRICHAT_DATA_DIR":                os.Getenv("AGRICHAT_DATA_DIR"),
		"AGRICHAT_LOG_FILE":                os.Getenv("AGRICHAT_LOG_FILE"),
		"AGRICHAT_POLL_INTERVAL_MS":        os.Getenv("AGRICHAT_POLL_INTERVAL_MS"),
		"AGRICHAT_REQUEST_TIMEOUT_SECONDS": os.Getenv("AGRICHAT_REQUEST_TIMEOUT_SECONDS"),
		"LOG_LEVEL":                        os.Getenv("LOG_LEVEL"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	t.Run("loads config with defaults", func(t *testing.T) {
		os.Unsetenv("AGRICHAT_API_URL")
		os.Unsetenv("AGRICHAT_LOG_FILE")
		os.Unsetenv("AGRICHAT_POLL_INTERVAL_MS")
		os.Unsetenv("AGRICHAT_REQUEST_TIMEOUT_SECONDS")
		os.Unsetenv("LOG_LEVEL")
		os.Setenv("AGRICHAT_DATA_DIR", "/tmp/agrichat-test")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "https://api.cropcure.app", cfg.APIBaseURL)
		assert.Equal(t, 1500, cfg.PollIntervalMS)
		assert.Equal(t, 15, cfg.RequestTimeoutSeconds)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "/tmp/agrichat-test", cfg.DataDir)
		assert.Equal(t, filepath.Join("/tmp/agrichat-test", "agrichat.log"), cfg.LogFile)
	})

	t.Run("env overrides defaults", func(t *testing.T) {
		os.Setenv("AGRICHAT_API_URL", "http://localhost:5000")
		os.Setenv("AGRICHAT_DATA_DIR", "/tmp/agrichat-test")
		os.Setenv("AGRICHAT_POLL_INTERVAL_MS", "250")
		os.Setenv("LOG_LEVEL", "debug")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:5000", cfg.APIBaseURL)
		assert.Equal(t, 250*time.Millisecond, cfg.PollInterval())
		assert.Equal(t, "debug", cfg.LogLevel)
	})
}
