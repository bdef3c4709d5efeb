package memory

import (
	"context"
	"fmt"
	"strings"

	"wakeplay/internal/target"
	"wakeplay/pkg/logging"
)

const methodPrefix = "method/"

// Record is one remembered strategy.
type Record struct {
	Key      string
	Strategy Strategy
	// Raw is the stored value, kept for records that no longer parse.
	Raw   string
	Valid bool
}

// Memory is the method cache. All methods are safe for concurrent use;
// concurrent writers to the same key resolve as last writer wins.
type Memory struct {
	store Store
}

// New creates a Memory on top of store.
func New(store Store) *Memory {
	return &Memory{store: store}
}

// Get returns the strategy remembered for the request. Store failures and
// values that do not parse are reported as a miss. order is passed to Key.
func (m *Memory) Get(ctx context.Context, targetID string, ids target.Identifiers, order ...string) (Strategy, bool) {
	key := Key(targetID, ids, order...)
	raw, ok, err := m.store.Get(ctx, methodPrefix+key)
	if err != nil {
		logging.Warn("Memory", "Failed to read %s, treating as miss: %v", key, err)
		return Strategy{}, false
	}
	if !ok {
		return Strategy{}, false
	}
	s, err := ParseStrategy(raw)
	if err != nil {
		logging.Warn("Memory", "Ignoring corrupt record %s=%q", key, raw)
		return Strategy{}, false
	}
	logging.Debug("Memory", "Found %s for %s", s, key)
	return s, true
}

// Put records the strategy that just succeeded.
func (m *Memory) Put(ctx context.Context, targetID string, ids target.Identifiers, s Strategy, order ...string) error {
	key := Key(targetID, ids, order...)
	if err := m.store.Put(ctx, methodPrefix+key, s.Encode()); err != nil {
		return fmt.Errorf("failed to remember %s for %s: %w", s, key, err)
	}
	logging.Debug("Memory", "Remembered %s for %s", s, key)
	return nil
}

// List returns every record, optionally limited to one target.
func (m *Memory) List(ctx context.Context, targetID string) ([]Record, error) {
	prefix := methodPrefix
	if targetID != "" {
		prefix += targetID + "|"
	}
	entries, err := m.store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(entries))
	for _, e := range entries {
		s, err := ParseStrategy(e.Value)
		records = append(records, Record{
			Key:      strings.TrimPrefix(e.Key, methodPrefix),
			Strategy: s,
			Raw:      e.Value,
			Valid:    err == nil,
		})
	}
	return records, nil
}

// Forget removes one record by method key.
func (m *Memory) Forget(ctx context.Context, key string) error {
	return m.store.Delete(ctx, methodPrefix+key)
}

// Clear removes every record of a target, or all records when targetID is
// empty. It returns the number of records removed.
func (m *Memory) Clear(ctx context.Context, targetID string) (int, error) {
	records, err := m.List(ctx, targetID)
	if err != nil {
		return 0, err
	}
	for i, r := range records {
		if err := m.Forget(ctx, r.Key); err != nil {
			return i, err
		}
	}
	return len(records), nil
}
