package memory

import (
	"context"
	"encoding/json"
	"fmt"

	"wakeplay/internal/target"
	"wakeplay/pkg/logging"
)

const (
	verifiedPrefix = "verified/"

	// MaxVerified bounds the verified tier of one target.
	MaxVerified = 5
)

// VerifiedStore keeps the templates that led to confirmed launches, most
// recent first.
type VerifiedStore struct {
	store Store
}

// NewVerifiedStore creates a VerifiedStore on top of store.
func NewVerifiedStore(store Store) *VerifiedStore {
	return &VerifiedStore{store: store}
}

// Templates returns the verified tier for targetID. Failures yield an empty
// tier.
func (v *VerifiedStore) Templates(ctx context.Context, targetID string) []target.Template {
	raw, ok, err := v.store.Get(ctx, verifiedPrefix+targetID)
	if err != nil {
		logging.Warn("Memory", "Failed to read verified templates for %s: %v", targetID, err)
		return nil
	}
	if !ok {
		return nil
	}
	var templates []target.Template
	if err := json.Unmarshal([]byte(raw), &templates); err != nil {
		logging.Warn("Memory", "Ignoring corrupt verified templates for %s: %v", targetID, err)
		return nil
	}
	return templates
}

// Record moves t to the front of the verified tier of targetID.
func (v *VerifiedStore) Record(ctx context.Context, targetID string, t target.Template) error {
	current := v.Templates(ctx, targetID)

	updated := []target.Template{t}
	for _, existing := range current {
		if existing.URI == t.URI {
			continue
		}
		updated = append(updated, existing)
		if len(updated) == MaxVerified {
			break
		}
	}

	data, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("failed to encode verified templates: %w", err)
	}
	if err := v.store.Put(ctx, verifiedPrefix+targetID, string(data)); err != nil {
		return fmt.Errorf("failed to record verified template for %s: %w", targetID, err)
	}
	logging.Debug("Memory", "Verified template %s for %s", t.URI, targetID)
	return nil
}

// Reset drops the verified tier of targetID.
func (v *VerifiedStore) Reset(ctx context.Context, targetID string) error {
	return v.store.Delete(ctx, verifiedPrefix+targetID)
}
