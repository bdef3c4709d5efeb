package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wakeplay/internal/target"
)

func writeTarget(t *testing.T, storage *Storage, name, content string) {
	t.Helper()
	require.NoError(t, storage.SaveTarget(name, []byte(content)))
}

func TestFileSource_LoadsTargets(t *testing.T) {
	storage := NewStorageWithPath(t.TempDir())
	writeTarget(t, storage, "netflix", `
id: netflix
coldStart: 20s
forceStop: false
templates:
  - uri: "https://www.netflix.com/watch/{{ .id }}?trackId=1"
    extras:
      source: "30"
`)
	writeTarget(t, storage, "crunchyroll", `
aliases: [com.crunchyroll.crunchyroid]
templates:
  - uri: "crunchyroll://watch/{{ .id }}"
`)
	writeTarget(t, storage, "broken", "templates: [")
	writeTarget(t, storage, "badtemplate", `
id: badtemplate
templates:
  - uri: "x://{{ .id "
`)

	source := NewFileSource(storage)
	snap, err := source.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint64(1), snap.Version)
	assert.Equal(t, "file", snap.Source)
	assert.Len(t, snap.Targets, 2)

	tc, ok := snap.Target("crunchyroll")
	require.True(t, ok, "id defaults to the file name")
	assert.Equal(t, []string{"com.crunchyroll.crunchyroid"}, tc.Aliases)

	nf, ok := snap.Target("netflix")
	require.True(t, ok)
	require.NotNil(t, nf.ColdStart)
	assert.Equal(t, 20*time.Second, *nf.ColdStart)

	errs := source.Errors()
	require.Equal(t, 2, errs.Count())
	assert.Equal(t, []string{"badtemplate", "broken"}, errs.Skipped())
	assert.Contains(t, errs.Report(), "broken.yaml")
}

func TestFileSource_ReloadBumpsVersion(t *testing.T) {
	storage := NewStorageWithPath(t.TempDir())
	source := NewFileSource(storage)

	first, err := source.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, first.Targets)

	again, err := source.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, again, "snapshot is cached until reload")

	writeTarget(t, storage, "plex", "id: plex\nsettle: 1s\n")
	second, err := source.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.Version+1, second.Version)
	assert.Contains(t, second.Targets, "plex")
	assert.Empty(t, first.Targets, "older snapshots are not mutated")
}

func TestFileSource_ReloadHonoursContext(t *testing.T) {
	source := NewFileSource(NewStorageWithPath(t.TempDir()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := source.Reload(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

type staticSource struct {
	snap *Snapshot
	err  error
}

func (s staticSource) Snapshot(context.Context) (*Snapshot, error) { return s.snap, s.err }

func TestChainSource(t *testing.T) {
	remote := &Snapshot{Version: 7, Source: "remote"}
	file := &Snapshot{Version: 1, Source: "file"}

	snap, err := NewChainSource(staticSource{err: errors.New("offline")}, staticSource{snap: file}).Snapshot(context.Background())
	require.NoError(t, err)
	assert.Same(t, file, snap)

	snap, err = NewChainSource(staticSource{snap: remote}, staticSource{err: errors.New("unreadable")}).Snapshot(context.Background())
	require.NoError(t, err)
	assert.Same(t, remote, snap)

	_, err = NewChainSource(staticSource{err: errors.New("a")}, staticSource{err: errors.New("b")}).Snapshot(context.Background())
	assert.ErrorContains(t, err, "a")
	assert.ErrorContains(t, err, "b")

	_, err = NewChainSource().Snapshot(context.Background())
	assert.Error(t, err)
}

func TestChainSource_LocalFilesOverrideRemote(t *testing.T) {
	remote := &Snapshot{Version: 7, Source: "remote", LoadedAt: time.Unix(200, 0), Targets: map[string]TargetConfig{
		"netflix": {ID: "netflix", Templates: []target.Template{{URI: "remote://netflix/{{ .id }}"}}},
		"hulu":    {ID: "hulu", Templates: []target.Template{{URI: "remote://hulu/{{ .id }}"}}},
	}}

	storage := NewStorageWithPath(t.TempDir())
	writeTarget(t, storage, "netflix", `
templates:
  - uri: "local://netflix/{{ .id }}"
`)
	writeTarget(t, storage, "plex", "id: plex\n")
	files := NewFileSource(storage)

	chain := NewChainSource(staticSource{snap: remote}, files)
	snap, err := chain.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "remote+file", snap.Source)
	assert.Equal(t, uint64(8), snap.Version)
	assert.Len(t, snap.Targets, 3)

	nf, ok := snap.Target("netflix")
	require.True(t, ok)
	assert.Equal(t, "local://netflix/{{ .id }}", nf.Templates[0].URI, "local file wins")
	hulu, ok := snap.Target("hulu")
	require.True(t, ok, "remote-only targets stay visible")
	assert.Equal(t, "remote://hulu/{{ .id }}", hulu.Templates[0].URI)
	_, ok = snap.Target("plex")
	assert.True(t, ok)

	// Removing the local override falls back to the remote entry.
	require.NoError(t, storage.DeleteTarget("netflix"))
	_, err = files.Reload(context.Background())
	require.NoError(t, err)
	snap, err = chain.Snapshot(context.Background())
	require.NoError(t, err)
	nf, _ = snap.Target("netflix")
	assert.Equal(t, "remote://netflix/{{ .id }}", nf.Templates[0].URI)
	assert.Equal(t, uint64(9), snap.Version, "a reload moves the merged version")
}

func TestSnapshotOrEmpty(t *testing.T) {
	snap := SnapshotOrEmpty(context.Background(), nil)
	assert.Empty(t, snap.Targets)

	snap = SnapshotOrEmpty(context.Background(), staticSource{err: errors.New("boom")})
	assert.Equal(t, "builtin", snap.Source)

	want := &Snapshot{Version: 3}
	assert.Same(t, want, SnapshotOrEmpty(context.Background(), staticSource{snap: want}))
}

func TestSnapshot_Profile(t *testing.T) {
	forceStop := false
	coldStart := 40 * time.Second
	snap := &Snapshot{Targets: map[string]TargetConfig{
		"netflix": {
			ID:        "netflix",
			ForceStop: &forceStop,
			ColdStart: &coldStart,
			Templates: []target.Template{{URI: "https://configured/{{ .id }}"}},
		},
		"crunchyroll": {
			ID:        "crunchyroll",
			Aliases:   []string{"com.crunchyroll.crunchyroid"},
			Templates: []target.Template{{URI: "crunchyroll://watch/{{ .id }}"}},
		},
	}}

	p, configured, ok := snap.Profile("netflix")
	require.True(t, ok)
	assert.False(t, p.ForceStop)
	assert.True(t, p.ProfilePicker, "unset fields keep the built-in value")
	assert.Equal(t, coldStart, p.ColdStart)
	assert.Equal(t, []target.Template{{URI: "https://configured/{{ .id }}"}}, configured)
	builtin, _ := target.LookupBuiltin("netflix")
	assert.Equal(t, builtin.Templates, p.Templates, "hardcoded tier is untouched")

	p, configured, ok = snap.Profile("crunchyroll")
	require.True(t, ok)
	assert.Equal(t, "crunchyroll", p.ID)
	assert.Empty(t, p.Templates)
	assert.Len(t, configured, 1)

	p, configured, ok = snap.Profile("youtube")
	require.True(t, ok)
	assert.Nil(t, configured)
	assert.NotEmpty(t, p.Templates)

	_, _, ok = snap.Profile("unknown")
	assert.False(t, ok)

	var nilSnap *Snapshot
	_, _, ok = nilSnap.Profile("netflix")
	assert.True(t, ok)
}

func TestSnapshot_Profiles(t *testing.T) {
	snap := &Snapshot{Targets: map[string]TargetConfig{
		"aaa": {ID: "aaa"},
	}}

	profiles := snap.Profiles()
	require.Len(t, profiles, len(target.Builtin())+1)
	assert.Equal(t, "aaa", profiles[0].ID)
	for i := 1; i < len(profiles); i++ {
		assert.Less(t, profiles[i-1].ID, profiles[i].ID)
	}
}
