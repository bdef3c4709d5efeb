package config

import (
	"time"

	"wakeplay/internal/target"
)

// WakeplayConfig is the top-level configuration structure for wakeplay.
type WakeplayConfig struct {
	Device     DeviceConfig     `yaml:"device"`
	Memory     MemoryConfig     `yaml:"memory"`
	Remote     RemoteConfig     `yaml:"remote"`
	Log        LogConfig        `yaml:"log"`
	Automation AutomationConfig `yaml:"automation"`
}

// DeviceConfig selects the adb device.
type DeviceConfig struct {
	Serial  string `yaml:"serial,omitempty"`  // Device serial passed to adb -s (default: the only attached device)
	ADBPath string `yaml:"adbPath,omitempty"` // Path to the adb binary (default: adb from PATH)
}

// MemoryConfig configures the method memory store.
type MemoryConfig struct {
	Path     string `yaml:"path,omitempty"`     // Badger directory (default: <configDir>/memory)
	InMemory bool   `yaml:"inMemory,omitempty"` // Keep learned routing in memory only
}

// RemoteConfig configures the optional remote snapshot source.
type RemoteConfig struct {
	URL         string        `yaml:"url,omitempty"`
	MinInterval time.Duration `yaml:"minInterval,omitempty"` // Minimum time between fetches (default: 5m)
	Timeout     time.Duration `yaml:"timeout,omitempty"`     // HTTP timeout (default: 10s)
}

// LogConfig configures pkg/logging.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error (default: info)
	Format string `yaml:"format,omitempty"` // text or json (default: text)
}

// AutomationConfig tunes the automation engine.
type AutomationConfig struct {
	PollInterval time.Duration `yaml:"pollInterval,omitempty"` // Interval between find-and-click attempts (default: 500ms)
}

// TargetConfig is the content of targets/<id>.yaml. Nil or empty fields
// leave the built-in profile untouched.
type TargetConfig struct {
	ID              string             `yaml:"id"`
	Name            string             `yaml:"name,omitempty"`
	Aliases         []string           `yaml:"aliases,omitempty"`
	IDPreference    []string           `yaml:"idPreference,omitempty"`
	QueryPreference []string           `yaml:"queryPreference,omitempty"`
	Templates       []target.Template  `yaml:"templates,omitempty"`
	Search          *target.SearchSpec `yaml:"search,omitempty"`
	Recipe          []target.StepSpec  `yaml:"recipe,omitempty"`
	ForceStop       *bool              `yaml:"forceStop,omitempty"`
	ProfilePicker   *bool              `yaml:"profilePicker,omitempty"`
	ColdStart       *time.Duration     `yaml:"coldStart,omitempty"`
	Settle          *time.Duration     `yaml:"settle,omitempty"`
}

// Apply overlays the configured quirks onto base. Templates are not merged:
// they form the configured tier and are kept apart from the hardcoded one.
func (tc TargetConfig) Apply(base target.Profile) target.Profile {
	p := base.Clone()
	if p.ID == "" {
		p.ID = tc.ID
	}
	if tc.Name != "" {
		p.Name = tc.Name
	}
	if len(tc.Aliases) > 0 {
		p.Aliases = append([]string(nil), tc.Aliases...)
	}
	if len(tc.IDPreference) > 0 {
		p.IDPreference = append([]string(nil), tc.IDPreference...)
	}
	if len(tc.QueryPreference) > 0 {
		p.QueryPreference = append([]string(nil), tc.QueryPreference...)
	}
	if tc.Search != nil {
		s := *tc.Search
		p.Search = &s
	}
	if len(tc.Recipe) > 0 {
		p.Recipe = append([]target.StepSpec(nil), tc.Recipe...)
	}
	if tc.ForceStop != nil {
		p.ForceStop = *tc.ForceStop
	}
	if tc.ProfilePicker != nil {
		p.ProfilePicker = *tc.ProfilePicker
	}
	if tc.ColdStart != nil {
		p.ColdStart = *tc.ColdStart
	}
	if tc.Settle != nil {
		p.Settle = *tc.Settle
	}
	return p
}
