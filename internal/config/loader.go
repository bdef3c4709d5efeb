package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"wakeplay/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/wakeplay"
	configFileName = "config.yaml"
)

// GetUserConfigDir returns ~/.config/wakeplay.
func GetUserConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

func GetDefaultConfigPathOrPanic() string {
	dir, err := GetUserConfigDir()
	if err != nil {
		panic(err)
	}
	return dir
}

// LoadConfig loads config.yaml from the given directory, starting from the
// defaults. A missing file is not an error.
func LoadConfig(configPath string) (WakeplayConfig, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
			return config, nil
		}
		logging.Info("ConfigLoader", "Error loading config.yaml from %s: %s", configFilePath, err)
		return WakeplayConfig{}, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		// config malformed
		return WakeplayConfig{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
	}
	if err := ValidateConfig(config); err != nil {
		return WakeplayConfig{}, fmt.Errorf("invalid configuration in %s: %w", configFilePath, err)
	}
	logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	return config, nil
}

// MemoryPath returns the badger directory for the method memory.
func (c WakeplayConfig) MemoryPath(configPath string) string {
	if c.Memory.Path != "" {
		return c.Memory.Path
	}
	return filepath.Join(configPath, "memory")
}
