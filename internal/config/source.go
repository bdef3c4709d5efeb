package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"wakeplay/pkg/logging"

	"gopkg.in/yaml.v3"
)

// Source supplies the configured tier as a versioned snapshot.
type Source interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// FileSource reads targets/*.yaml from the configuration directory. The
// snapshot is cached until Reload is called.
type FileSource struct {
	storage *Storage

	mu       sync.RWMutex
	snapshot *Snapshot
	version  uint64
	errors   *ConfigurationErrorCollection
}

// NewFileSource creates a FileSource backed by storage.
func NewFileSource(storage *Storage) *FileSource {
	return &FileSource{storage: storage}
}

// Snapshot returns the cached snapshot, loading it on first use.
func (fs *FileSource) Snapshot(ctx context.Context) (*Snapshot, error) {
	fs.mu.RLock()
	snap := fs.snapshot
	fs.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}
	return fs.Reload(ctx)
}

// Reload rereads every target file. Files that fail to parse or validate are
// skipped and reported through Errors.
func (fs *FileSource) Reload(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	names, err := fs.storage.ListTargets()
	if err != nil {
		return nil, fmt.Errorf("failed to list target files: %w", err)
	}

	collection := NewConfigurationErrorCollection()
	targets := make(map[string]TargetConfig, len(names))
	for _, name := range names {
		filePath, err := fs.storage.TargetPath(name)
		if err != nil {
			collection.Addf(name, name, ErrorIO, "%v", err)
			continue
		}
		data, err := os.ReadFile(filePath)
		if err != nil {
			collection.Addf(filePath, name, ErrorIO, "%v", err)
			continue
		}

		var tc TargetConfig
		if err := yaml.Unmarshal(data, &tc); err != nil {
			collection.Add(ConfigurationError{
				Path:    filePath,
				Target:  name,
				Kind:    ErrorParse,
				Message: "invalid YAML: " + err.Error(),
				Hint:    "check indentation and quote template values",
			})
			continue
		}
		if tc.ID == "" {
			tc.ID = name
		}
		if err := ValidateTargetConfig(tc); err != nil {
			collection.Addf(filePath, tc.ID, ErrorValidation, "%v", err)
			continue
		}
		if _, dup := targets[tc.ID]; dup {
			collection.Addf(filePath, tc.ID, ErrorDuplicate, "target %s is defined more than once", tc.ID)
			continue
		}
		targets[tc.ID] = tc
	}

	for _, ce := range collection.Errors {
		logging.Warn("ConfigSource", "Skipping %s: %s", ce.Path, ce.Message)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.version++
	fs.snapshot = &Snapshot{
		Version:  fs.version,
		Source:   "file",
		LoadedAt: time.Now(),
		Targets:  targets,
	}
	fs.errors = collection
	logging.Info("ConfigSource", "Loaded %d target files (version %d)", len(targets), fs.version)
	return fs.snapshot, nil
}

// Errors returns the problems found by the last load.
func (fs *FileSource) Errors() *ConfigurationErrorCollection {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if fs.errors == nil {
		return NewConfigurationErrorCollection()
	}
	return fs.errors
}

// ChainSource layers the snapshots of several sources. Sources later in the
// list override earlier ones per target, so NewChainSource(remote, files)
// lets a local target file win over the remote entry for the same target
// while every other remote target stays visible.
type ChainSource struct {
	sources []Source
}

// NewChainSource layers sources from lowest to highest precedence.
func NewChainSource(sources ...Source) *ChainSource {
	return &ChainSource{sources: sources}
}

// Snapshot merges the snapshots of every source that succeeds. It fails only
// when all sources fail. A single successful snapshot is returned as is.
func (cs *ChainSource) Snapshot(ctx context.Context) (*Snapshot, error) {
	var (
		errs  []error
		snaps []*Snapshot
	)
	for _, s := range cs.sources {
		snap, err := s.Snapshot(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if snap != nil {
			snaps = append(snaps, snap)
		}
	}

	switch len(snaps) {
	case 0:
		if len(errs) == 0 {
			return nil, errors.New("no configuration sources")
		}
		return nil, errors.Join(errs...)
	case 1:
		return snaps[0], nil
	}
	for _, err := range errs {
		logging.Debug("ConfigSource", "Layering without a failed source: %v", err)
	}
	return mergeSnapshots(snaps), nil
}

// mergeSnapshots overlays snaps in order. The merged version is the sum of
// the layer versions, so it moves whenever any layer reloads.
func mergeSnapshots(snaps []*Snapshot) *Snapshot {
	merged := &Snapshot{Targets: map[string]TargetConfig{}}
	names := make([]string, 0, len(snaps))
	for _, snap := range snaps {
		merged.Version += snap.Version
		if snap.LoadedAt.After(merged.LoadedAt) {
			merged.LoadedAt = snap.LoadedAt
		}
		names = append(names, snap.Source)
		for id, tc := range snap.Targets {
			if _, overridden := merged.Targets[id]; overridden {
				logging.Debug("ConfigSource", "Target %s from %s overrides an earlier source", id, snap.Source)
			}
			merged.Targets[id] = tc
		}
	}
	merged.Source = strings.Join(names, "+")
	return merged
}

// SnapshotOrEmpty returns the source's snapshot, or an empty one when the
// source is nil or fails. Failures are logged and otherwise ignored.
func SnapshotOrEmpty(ctx context.Context, source Source) *Snapshot {
	if source == nil {
		return EmptySnapshot()
	}
	snap, err := source.Snapshot(ctx)
	if err != nil || snap == nil {
		logging.Warn("ConfigSource", "Configured tier unavailable, using built-in profiles only: %v", err)
		return EmptySnapshot()
	}
	return snap
}
