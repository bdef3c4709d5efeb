package app

import (
	"context"
	"errors"
	"time"

	"wakeplay/internal/automation"
	"wakeplay/internal/clock"
	"wakeplay/internal/config"
	"wakeplay/internal/host"
	"wakeplay/internal/memory"
	"wakeplay/internal/orchestrator"
	"wakeplay/pkg/logging"
)

// Services holds the long-lived components shared by every command.
//
// Initialization order:
//  1. Storage for the configuration directory
//  2. FileSource over targets/, RemoteSource when remote.url is set
//  3. The method store (badger, or in-memory)
type Services struct {
	// Storage reads and writes files under the configuration directory.
	Storage *config.Storage

	// Files is the configured tier read from targets/*.yaml.
	Files *config.FileSource

	// Remote is the remote configured tier, nil when remote.url is unset.
	Remote *config.RemoteSource

	// Source is what the orchestrator reads: remote first, then files.
	Source config.Source

	// Store persists learned launch methods and verified templates.
	Store    memory.Store
	Memory   *memory.Memory
	Verified *memory.VerifiedStore

	watcher *config.Watcher
}

// InitializeServices creates the services for cfg. cfg.Settings must be set.
func InitializeServices(cfg *Config) (*Services, error) {
	if cfg.Settings == nil {
		return nil, errors.New("settings not loaded")
	}
	settings := cfg.Settings

	storage := config.NewStorageWithPath(cfg.ConfigPath)
	files := config.NewFileSource(storage)

	s := &Services{
		Storage: storage,
		Files:   files,
		Source:  files,
	}
	if settings.Remote.URL != "" {
		s.Remote = config.NewRemoteSource(settings.Remote)
		s.Source = config.NewChainSource(s.Remote, files)
		logging.Info("Bootstrap", "Using remote target profiles from %s", settings.Remote.URL)
	}

	s.Store = openStore(*settings, cfg.ConfigPath)
	s.Memory = memory.New(s.Store)
	s.Verified = memory.NewVerifiedStore(s.Store)
	return s, nil
}

// openStore opens the badger store, falling back to memory when it cannot
// be opened (typically because another wakeplay process holds the lock).
func openStore(settings config.WakeplayConfig, configPath string) memory.Store {
	if settings.Memory.InMemory {
		logging.Debug("Bootstrap", "Method memory kept in memory only")
		return memory.NewMapStore()
	}

	path := settings.MemoryPath(configPath)
	store, err := memory.OpenBadger(path)
	if err != nil {
		logging.Warn("Bootstrap", "Method memory at %s unavailable, learning will not persist: %v", path, err)
		return memory.NewMapStore()
	}
	logging.Debug("Bootstrap", "Opened method memory at %s", path)
	return store
}

// NewOrchestrator builds an orchestrator for h sharing this instance's
// sources and stores.
func (s *Services) NewOrchestrator(h host.Host, pollInterval time.Duration) (*orchestrator.Orchestrator, error) {
	clk := clock.Real{}
	return orchestrator.NewForHost(h, orchestrator.Config{
		Source:   s.Source,
		Memory:   s.Memory,
		Verified: s.Verified,
		Engine:   automation.NewEngine(h, clk, pollInterval),
		Clock:    clk,
	})
}

// WatchTargets reloads the file tier whenever targets/ changes, until ctx
// ends or Close is called.
func (s *Services) WatchTargets(ctx context.Context) error {
	if s.watcher != nil {
		return nil
	}
	w, err := config.NewWatcher(s.Storage, 0, config.ReloadOnChange(ctx, s.Files))
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	s.watcher = w
	return nil
}

// Close stops the watcher and closes the method store.
func (s *Services) Close() error {
	var errs []error
	if s.watcher != nil {
		errs = append(errs, s.watcher.Stop())
		s.watcher = nil
	}
	if s.Store != nil {
		errs = append(errs, s.Store.Close())
	}
	return errors.Join(errs...)
}
