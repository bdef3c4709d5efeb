package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"wakeplay/pkg/logging"
)

// ErrTargetNotFound is returned when no file exists for a target.
var ErrTargetNotFound = errors.New("target file not found")

// Storage reads and writes target files in a configuration directory
// (targets/<id>.yaml, or .yml).
type Storage struct {
	mu         sync.RWMutex
	configPath string // empty means ~/.config/wakeplay
}

// NewStorage uses the default configuration directory.
func NewStorage() *Storage {
	return &Storage{}
}

func NewStorageWithPath(configPath string) *Storage {
	return &Storage{configPath: configPath}
}

// ConfigDir returns the configuration directory in use.
func (s *Storage) ConfigDir() (string, error) {
	if s.configPath != "" {
		return s.configPath, nil
	}
	return GetUserConfigDir()
}

// TargetsPath returns the directory holding target files.
func (s *Storage) TargetsPath() (string, error) {
	dir, err := s.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, TargetsDir), nil
}

// TargetPath returns the file that defines id, or ErrTargetNotFound.
func (s *Storage) TargetPath(id string) (string, error) {
	if err := validateTargetID(id); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findTarget(id)
}

// ListTargets returns the sorted file stems under targets/. A missing
// directory is an empty list.
func (s *Storage) ListTargets() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dir, err := s.TargetsPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get configuration directory: %w", err)
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !isYAMLFile(entry.Name()) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())))
	}
	sort.Strings(names)
	logging.Debug("Storage", "Listed %d target files in %s", len(names), dir)
	return names, nil
}

func (s *Storage) LoadTarget(id string) ([]byte, error) {
	path, err := s.TargetPath(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// SaveTarget writes targets/<id>.yaml through a temporary file and a
// rename, so a watcher never reads a half-written file.
func (s *Storage) SaveTarget(id string, data []byte) error {
	if err := validateTargetID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	dir, err := s.TargetsPath()
	if err != nil {
		return fmt.Errorf("failed to get configuration directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	path := filepath.Join(dir, fileStem(id)+".yaml")
	tmp, err := os.CreateTemp(dir, "."+fileStem(id)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	logging.Info("Storage", "Saved target %s to %s", id, path)
	return nil
}

func (s *Storage) DeleteTarget(id string) error {
	if err := validateTargetID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.findTarget(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	logging.Info("Storage", "Deleted target %s (%s)", id, path)
	return nil
}

func (s *Storage) findTarget(id string) (string, error) {
	dir, err := s.TargetsPath()
	if err != nil {
		return "", fmt.Errorf("failed to get configuration directory: %w", err)
	}
	stem := fileStem(id)
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(dir, stem+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrTargetNotFound, id)
}

// fileStem maps a target ID onto a safe file name: path separators and
// shell-hostile characters become '_', runs of '_' collapse.
func fileStem(id string) string {
	stem := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', '.', ' ':
			return '_'
		}
		return r
	}, id)
	for strings.Contains(stem, "__") {
		stem = strings.ReplaceAll(stem, "__", "_")
	}
	stem = strings.Trim(stem, "_")
	if stem == "" {
		stem = "unnamed"
	}
	return stem
}

func validateTargetID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("target id cannot be empty")
	}
	return nil
}

func isYAMLFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
