package config

import (
	"time"
)

// Default monitor settings
const (
	DefaultHTTPTimeout    = 30 * time.Second
	DefaultMaxContentSize = 1048576 // 1MB
	DefaultShutdownGrace  = 10 * time.Second
	DefaultUserAgent      = "pagewatch/1.0"
)

// TargetConfig defines one resource to monitor: a unique human-meaningful
// name, the URL to fetch, and the polling interval.
type TargetConfig struct {
	Name     string   `json:"name" yaml:"name" validate:"required"`
	URL      string   `json:"url" yaml:"url" validate:"required,targeturl"`
	Interval Duration `json:"interval" yaml:"interval"`
}

// MonitorConfig defines configuration for the monitoring service
type MonitorConfig struct {
	Targets        []TargetConfig `json:"targets" yaml:"targets" validate:"required,min=1,dive"`
	HTTPTimeout    Duration       `json:"http_timeout,omitempty" yaml:"http_timeout,omitempty"`
	MaxContentSize int            `json:"max_content_size,omitempty" yaml:"max_content_size,omitempty" validate:"omitempty,min=1"`
	UserAgent      string         `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	ShutdownGrace  Duration       `json:"shutdown_grace,omitempty" yaml:"shutdown_grace,omitempty"`
}

// NewDefaultMonitorConfig creates default monitor configuration
func NewDefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Targets:        []TargetConfig{},
		HTTPTimeout:    Duration(DefaultHTTPTimeout),
		MaxContentSize: DefaultMaxContentSize,
		UserAgent:      DefaultUserAgent,
		ShutdownGrace:  Duration(DefaultShutdownGrace),
	}
}
