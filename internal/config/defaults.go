package config

import "time"

const (
	// DefaultRemoteMinInterval is the minimum time between remote fetches
	DefaultRemoteMinInterval = 5 * time.Minute

	// DefaultRemoteTimeout bounds a single remote fetch
	DefaultRemoteTimeout = 10 * time.Second

	// DefaultPollInterval is the interval between find-and-click attempts
	DefaultPollInterval = 500 * time.Millisecond

	// TargetsDir is the entity type directory holding target files
	TargetsDir = "targets"
)

// GetDefaultConfig returns the default configuration
func GetDefaultConfig() WakeplayConfig {
	return WakeplayConfig{
		Remote: RemoteConfig{
			MinInterval: DefaultRemoteMinInterval,
			Timeout:     DefaultRemoteTimeout,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Automation: AutomationConfig{
			PollInterval: DefaultPollInterval,
		},
	}
}
