package config

import (
	"sort"
	"time"

	"wakeplay/internal/target"
)

// Snapshot is an immutable view of the configured tier at one point in time.
type Snapshot struct {
	Version  uint64
	Source   string
	LoadedAt time.Time
	Targets  map[string]TargetConfig
}

// snapshotDocument is the wire format served by a remote source.
type snapshotDocument struct {
	Version uint64         `yaml:"version"`
	Targets []TargetConfig `yaml:"targets"`
}

// EmptySnapshot has no configured targets.
func EmptySnapshot() *Snapshot {
	return &Snapshot{Source: "builtin", Targets: map[string]TargetConfig{}}
}

// Target returns the configured entry for id.
func (s *Snapshot) Target(id string) (TargetConfig, bool) {
	if s == nil {
		return TargetConfig{}, false
	}
	tc, ok := s.Targets[id]
	return tc, ok
}

// Profile returns the effective profile for id (built-in overlaid with
// configuration) together with its configured-tier templates.
func (s *Snapshot) Profile(id string) (target.Profile, []target.Template, bool) {
	base, builtinOK := target.LookupBuiltin(id)
	tc, configured := s.Target(id)

	switch {
	case builtinOK && configured:
		return tc.Apply(base), tc.Templates, true
	case builtinOK:
		return base, nil, true
	case configured:
		return tc.Apply(target.Profile{ID: id}), tc.Templates, true
	default:
		return target.Profile{}, nil, false
	}
}

// Profiles returns every known profile, built-in and configured, sorted by ID.
func (s *Snapshot) Profiles() []target.Profile {
	ids := map[string]bool{}
	for _, p := range target.Builtin() {
		ids[p.ID] = true
	}
	if s != nil {
		for id := range s.Targets {
			ids[id] = true
		}
	}

	sorted := make([]string, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)

	profiles := make([]target.Profile, 0, len(sorted))
	for _, id := range sorted {
		if p, _, ok := s.Profile(id); ok {
			profiles = append(profiles, p)
		}
	}
	return profiles
}
