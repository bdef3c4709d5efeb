package app

import (
	"fmt"
	"io"
	"os"
	"sync"

	"wakeplay/internal/adb"
	"wakeplay/internal/config"
	"wakeplay/internal/orchestrator"
	"wakeplay/pkg/logging"
)

// Application wires configuration, storage and the device into a ready
// orchestrator.
//
// Bootstrap happens in two phases. NewApplication loads configuration,
// initialises logging and opens the method store; the device and the
// orchestrator are created on first use, so commands that never touch
// the device (targets, memory) work without adb installed.
type Application struct {
	config   *Config
	services *Services

	deviceOnce sync.Once
	device     *adb.Client
	orch       *orchestrator.Orchestrator
	deviceErr  error
}

// NewApplication performs the bootstrap sequence:
//
//  1. Resolves the configuration directory
//  2. Loads config.yaml (defaults when absent)
//  3. Configures logging from log.level/log.format and the debug flag
//  4. Initializes storage, configuration sources and the method store
func NewApplication(cfg *Config) (*Application, error) {
	var logOutput io.Writer = os.Stderr
	if cfg.LogOutput != nil {
		logOutput = cfg.LogOutput
	}

	if cfg.ConfigPath == "" {
		dir, err := config.GetUserConfigDir()
		if err != nil {
			return nil, err
		}
		cfg.ConfigPath = dir
	}

	if cfg.Settings == nil {
		// Log at info until config.yaml tells us otherwise.
		logging.InitForCLI(bootstrapLevel(cfg.Debug), logOutput)

		settings, err := config.LoadConfig(cfg.ConfigPath)
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load wakeplay configuration from path: %s", cfg.ConfigPath)
			return nil, fmt.Errorf("failed to load wakeplay configuration from path %s: %w", cfg.ConfigPath, err)
		}
		cfg.Settings = &settings
	}

	level := logging.ParseLevel(cfg.Settings.Log.Level)
	if cfg.Debug {
		level = logging.LevelDebug
	}
	logging.InitWithFormat(level, cfg.Settings.Log.Format, logOutput)

	if cfg.Serial != "" {
		cfg.Settings.Device.Serial = cfg.Serial
	}

	services, err := InitializeServices(cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

func bootstrapLevel(debug bool) logging.LogLevel {
	if debug {
		return logging.LevelDebug
	}
	return logging.LevelWarn
}

// Config returns the resolved application configuration.
func (a *Application) Config() *Config {
	return a.config
}

// Services returns the initialized services.
func (a *Application) Services() *Services {
	return a.services
}

// Device returns the adb client for the configured device.
func (a *Application) Device() (*adb.Client, error) {
	a.initDevice()
	return a.device, a.deviceErr
}

// Orchestrator returns an orchestrator driving the configured device.
func (a *Application) Orchestrator() (*orchestrator.Orchestrator, error) {
	a.initDevice()
	return a.orch, a.deviceErr
}

func (a *Application) initDevice() {
	a.deviceOnce.Do(func() {
		settings := a.config.Settings
		device, err := adb.New(adb.Options{Path: settings.Device.ADBPath, Serial: settings.Device.Serial})
		if err != nil {
			a.deviceErr = fmt.Errorf("failed to set up device: %w", err)
			return
		}
		a.device = device

		a.orch, a.deviceErr = a.services.NewOrchestrator(device, settings.Automation.PollInterval)
	})
}

// Close releases the method store and stops the configuration watcher.
func (a *Application) Close() error {
	return a.services.Close()
}
