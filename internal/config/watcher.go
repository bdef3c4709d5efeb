package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"wakeplay/pkg/logging"
)

// ChangeOperation is the kind of change seen for a target file.
type ChangeOperation string

const (
	OperationCreate ChangeOperation = "create"
	OperationUpdate ChangeOperation = "update"
	OperationDelete ChangeOperation = "delete"
)

// ChangeEvent reports one debounced change to a target file.
type ChangeEvent struct {
	Name      string
	Operation ChangeOperation
	FilePath  string
	Timestamp time.Time
}

// Watcher watches the targets directory and calls its handler once per
// burst of changes to the same file.
type Watcher struct {
	mu sync.Mutex

	// dir is the watched targets directory
	dir string

	watcher *fsnotify.Watcher
	handler func(ChangeEvent)

	// debounceInterval is how long to wait for additional changes
	debounceInterval time.Duration

	// pendingEvents tracks pending debounced events
	pendingEvents map[string]*debounceEntry

	stopCh  chan struct{}
	running bool
}

type debounceEntry struct {
	event ChangeEvent
	timer *time.Timer
}

// NewWatcher creates a watcher for <configDir>/targets.
func NewWatcher(storage *Storage, debounceInterval time.Duration, handler func(ChangeEvent)) (*Watcher, error) {
	dir, err := storage.TargetsPath()
	if err != nil {
		return nil, err
	}
	if debounceInterval == 0 {
		debounceInterval = 500 * time.Millisecond
	}
	return &Watcher{
		dir:              dir,
		handler:          handler,
		debounceInterval: debounceInterval,
		pendingEvents:    make(map[string]*debounceEntry),
	}, nil
}

// ReloadOnChange returns a handler that reloads fs for every change.
func ReloadOnChange(ctx context.Context, fs *FileSource) func(ChangeEvent) {
	return func(ev ChangeEvent) {
		logging.Info("ConfigWatcher", "Target file %s changed (%s), reloading", ev.Name, ev.Operation)
		if _, err := fs.Reload(ctx); err != nil {
			logging.Error("ConfigWatcher", err, "Failed to reload target files")
		}
	}
}

// Start begins watching. It creates the directory if needed.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(w.dir); err != nil {
		watcher.Close()
		return err
	}

	w.watcher = watcher
	w.running = true
	w.stopCh = make(chan struct{})
	go w.processEvents(ctx, watcher, w.stopCh)

	logging.Info("ConfigWatcher", "Started watching %s for target changes", w.dir)
	return nil
}

func (w *Watcher) processEvents(ctx context.Context, watcher *fsnotify.Watcher, stopCh chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			w.cleanupPendingEvents()
			return

		case <-stopCh:
			w.cleanupPendingEvents()
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			w.handleFsEvent(event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logging.Error("ConfigWatcher", err, "Filesystem watcher error")
		}
	}
}

func (w *Watcher) handleFsEvent(event fsnotify.Event) {
	if !isYAMLFile(event.Name) {
		return
	}

	var operation ChangeOperation
	switch {
	case event.Op&fsnotify.Create == fsnotify.Create:
		operation = OperationCreate
	case event.Op&fsnotify.Write == fsnotify.Write:
		operation = OperationUpdate
	case event.Op&fsnotify.Remove == fsnotify.Remove:
		operation = OperationDelete
	case event.Op&fsnotify.Rename == fsnotify.Rename:
		// the new name will trigger a create
		operation = OperationDelete
	default:
		return
	}

	base := filepath.Base(event.Name)
	w.debounceEvent(ChangeEvent{
		Name:      strings.TrimSuffix(base, filepath.Ext(base)),
		Operation: operation,
		FilePath:  event.Name,
		Timestamp: time.Now(),
	})
}

func (w *Watcher) debounceEvent(event ChangeEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()

	key := event.FilePath
	if entry, ok := w.pendingEvents[key]; ok {
		entry.timer.Stop()
		event.Operation = mergeOperations(entry.event.Operation, event.Operation)
	}

	timer := time.AfterFunc(w.debounceInterval, func() {
		w.mu.Lock()
		entry, ok := w.pendingEvents[key]
		if ok {
			delete(w.pendingEvents, key)
		}
		w.mu.Unlock()

		if ok {
			logging.Debug("ConfigWatcher", "Emitting change event: %s %s", entry.event.Operation, entry.event.Name)
			w.handler(entry.event)
		}
	})

	w.pendingEvents[key] = &debounceEntry{event: event, timer: timer}
}

// mergeOperations merges two operations into a single logical operation.
func mergeOperations(old, new ChangeOperation) ChangeOperation {
	if old == OperationCreate {
		if new == OperationDelete {
			return OperationDelete
		}
		return OperationCreate
	}
	if old == OperationUpdate && new == OperationDelete {
		return OperationDelete
	}
	return new
}

func (w *Watcher) cleanupPendingEvents() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, entry := range w.pendingEvents {
		entry.timer.Stop()
	}
	w.pendingEvents = make(map[string]*debounceEntry)
}

// Stop stops the watcher. Pending events are dropped.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	w.running = false
	close(w.stopCh)

	if w.watcher != nil {
		if err := w.watcher.Close(); err != nil {
			logging.Error("ConfigWatcher", err, "Error closing filesystem watcher")
		}
		w.watcher = nil
	}

	logging.Info("ConfigWatcher", "Stopped watching %s", w.dir)
	return nil
}
