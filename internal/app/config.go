package app

import (
	"io"

	"wakeplay/internal/config"
)

// Config holds the application configuration
type Config struct {
	// Debug forces debug logging regardless of log.level
	Debug bool

	// ConfigPath is the configuration directory; empty means ~/.config/wakeplay
	ConfigPath string

	// Serial overrides device.serial from config.yaml
	Serial string

	// LogOutput receives log lines (default: stderr)
	LogOutput io.Writer

	// Settings is loaded from config.yaml when nil
	Settings *config.WakeplayConfig
}

// NewConfig creates a new application configuration
func NewConfig(debug bool, configPath, serial string) *Config {
	return &Config{
		Debug:      debug,
		ConfigPath: configPath,
		Serial:     serial,
	}
}
