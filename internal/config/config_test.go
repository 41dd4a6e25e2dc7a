package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadGlobalConfig(t *testing.T) {
	t.Run("yaml config", func(t *testing.T) {
		path := writeConfigFile(t, "config.yaml", `
log_config:
  log_level: debug
monitor_config:
  http_timeout: 10s
  targets:
    - name: example
      url: https://example.com
      interval: 1h
    - name: other
      url: https://other.example.com/page
      interval: 30m
notification_config:
  webhook_url: https://discord.com/api/webhooks/1/abc
storage_config:
  database_path: data/pagewatch.db
`)

		cfg, err := LoadGlobalConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.LogConfig.LogLevel)
		assert.Equal(t, 10*time.Second, cfg.MonitorConfig.HTTPTimeout.Std())
		require.Len(t, cfg.MonitorConfig.Targets, 2)
		assert.Equal(t, "example", cfg.MonitorConfig.Targets[0].Name)
		assert.Equal(t, time.Hour, cfg.MonitorConfig.Targets[0].Interval.Std())
		assert.Equal(t, 30*time.Minute, cfg.MonitorConfig.Targets[1].Interval.Std())
		assert.Equal(t, "https://discord.com/api/webhooks/1/abc", cfg.NotificationConfig.WebhookURL)
		assert.Equal(t, "data/pagewatch.db", cfg.StorageConfig.DatabasePath)

		// Unspecified fields keep their defaults.
		assert.Equal(t, DefaultMaxContentSize, cfg.MonitorConfig.MaxContentSize)
		assert.Equal(t, DefaultShutdownGrace, cfg.MonitorConfig.ShutdownGrace.Std())
	})

	t.Run("json config", func(t *testing.T) {
		path := writeConfigFile(t, "config.json", `{
  "monitor_config": {
    "targets": [
      {"name": "example", "url": "https://example.com", "interval": "2h"}
    ]
  }
}`)

		cfg, err := LoadGlobalConfig(path)
		require.NoError(t, err)
		require.Len(t, cfg.MonitorConfig.Targets, 1)
		assert.Equal(t, 2*time.Hour, cfg.MonitorConfig.Targets[0].Interval.Std())
	})

	t.Run("bad duration", func(t *testing.T) {
		path := writeConfigFile(t, "config.yaml", `
monitor_config:
  targets:
    - name: example
      url: https://example.com
      interval: sometimes
`)

		_, err := LoadGlobalConfig(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadGlobalConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestValidateConfig(t *testing.T) {
	validTarget := func(name string) TargetConfig {
		return TargetConfig{Name: name, URL: "https://example.com/" + name, Interval: Duration(time.Hour)}
	}

	newConfig := func(targets ...TargetConfig) *GlobalConfig {
		cfg := NewDefaultGlobalConfig()
		cfg.MonitorConfig.Targets = targets
		return cfg
	}

	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, ValidateConfig(newConfig(validTarget("a"), validTarget("b"))))
	})

	t.Run("no targets", func(t *testing.T) {
		assert.Error(t, ValidateConfig(newConfig()))
	})

	t.Run("duplicate names", func(t *testing.T) {
		err := ValidateConfig(newConfig(validTarget("a"), validTarget("a")))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate target name")
	})

	t.Run("zero interval", func(t *testing.T) {
		target := validTarget("a")
		target.Interval = 0
		err := ValidateConfig(newConfig(target))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "positive interval")
	})

	t.Run("negative interval", func(t *testing.T) {
		target := validTarget("a")
		target.Interval = Duration(-time.Minute)
		assert.Error(t, ValidateConfig(newConfig(target)))
	})

	t.Run("target urls are normalized", func(t *testing.T) {
		target := validTarget("a")
		target.URL = "HTTPS://Example.COM/Page#section"
		cfg := newConfig(target)

		require.NoError(t, ValidateConfig(cfg))
		assert.Equal(t, "https://example.com/Page", cfg.MonitorConfig.Targets[0].URL)
	})

	t.Run("invalid target url", func(t *testing.T) {
		target := validTarget("a")
		target.URL = "not a url"
		assert.Error(t, ValidateConfig(newConfig(target)))
	})

	t.Run("invalid log level", func(t *testing.T) {
		cfg := newConfig(validTarget("a"))
		cfg.LogConfig.LogLevel = "loud"
		assert.Error(t, ValidateConfig(cfg))
	})
}
