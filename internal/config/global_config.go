package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"pagewatch/internal/common"
	"pagewatch/internal/logger"
)

// GlobalConfig contains all configuration sections for the application
type GlobalConfig struct {
	LogConfig          logger.FileLogConfig `json:"log_config,omitempty" yaml:"log_config,omitempty"`
	MonitorConfig      MonitorConfig        `json:"monitor_config,omitempty" yaml:"monitor_config,omitempty"`
	NotificationConfig NotificationConfig   `json:"notification_config,omitempty" yaml:"notification_config,omitempty"`
	StorageConfig      StorageConfig        `json:"storage_config,omitempty" yaml:"storage_config,omitempty"`
}

// NewDefaultGlobalConfig creates a new GlobalConfig with default values
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		LogConfig:          logger.NewDefaultFileLogConfig(),
		MonitorConfig:      NewDefaultMonitorConfig(),
		NotificationConfig: NewDefaultNotificationConfig(),
		StorageConfig:      NewDefaultStorageConfig(),
	}
}

// LoadGlobalConfig loads configuration from a file. The file path is
// resolved by GetConfigPath; both YAML and JSON are supported, chosen by the
// file extension. A missing config file is a configuration error: the
// monitor cannot run without targets.
func LoadGlobalConfig(providedPath string) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()

	filePath := GetConfigPath(providedPath)
	if filePath == "" {
		return nil, common.NewConfigurationError("", "", "no configuration file found")
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, common.WrapErrorf(err, "reading config file %s", filePath)
	}

	if err := parseConfigContent(data, filePath, cfg); err != nil {
		return nil, common.WrapErrorf(err, "parsing config file %s", filePath)
	}

	return cfg, nil
}

// parseConfigContent unmarshals file content into cfg based on extension.
func parseConfigContent(data []byte, filePath string, cfg *GlobalConfig) error {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".json":
		return json.Unmarshal(data, cfg)
	default:
		return yaml.Unmarshal(data, cfg)
	}
}
