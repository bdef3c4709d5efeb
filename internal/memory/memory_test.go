package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wakeplay/internal/target"
)

type failingStore struct {
	*MapStore
}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk on fire")
}

func (failingStore) Put(context.Context, string, string) error {
	return errors.New("disk on fire")
}

func TestMemory_RoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := New(NewMapStore())
	ids := target.Identifiers{target.IDEpisode: "ep-9", target.IDShowName: "Show"}

	_, ok := mem.Get(ctx, "netflix", ids)
	assert.False(t, ok)

	require.NoError(t, mem.Put(ctx, "netflix", ids, DeepLink(2)))

	got, ok := mem.Get(ctx, "netflix", ids)
	require.True(t, ok)
	assert.Equal(t, DeepLink(2), got)

	// Same most-specific identifier, different extras: same key.
	got, ok = mem.Get(ctx, "netflix", target.Identifiers{target.IDEpisode: "ep-9", "season": "1"})
	require.True(t, ok)
	assert.Equal(t, DeepLink(2), got)

	_, ok = mem.Get(ctx, "hulu", ids)
	assert.False(t, ok, "keys are scoped by target")

	require.NoError(t, mem.Put(ctx, "netflix", ids, Automation))
	got, _ = mem.Get(ctx, "netflix", ids)
	assert.Equal(t, Automation, got, "records are overwritten")
}

func TestMemory_CorruptRecordIsMiss(t *testing.T) {
	ctx := context.Background()
	store := NewMapStore()
	mem := New(store)
	require.NoError(t, store.Put(ctx, "method/netflix|default", "teleport"))

	_, ok := mem.Get(ctx, "netflix", nil)
	assert.False(t, ok)

	records, err := mem.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].Valid)
	assert.Equal(t, "teleport", records[0].Raw)
}

func TestMemory_StoreFailures(t *testing.T) {
	ctx := context.Background()
	mem := New(failingStore{NewMapStore()})

	_, ok := mem.Get(ctx, "netflix", nil)
	assert.False(t, ok)
	assert.ErrorContains(t, mem.Put(ctx, "netflix", nil, Search), "disk on fire")
}

func TestMemory_ListForgetClear(t *testing.T) {
	ctx := context.Background()
	mem := New(NewMapStore())
	require.NoError(t, mem.Put(ctx, "netflix", target.Identifiers{"id": "1"}, DeepLink(0)))
	require.NoError(t, mem.Put(ctx, "netflix", target.Identifiers{"id": "2"}, Search))
	require.NoError(t, mem.Put(ctx, "hulu", nil, AppOnly))

	all, err := mem.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "hulu|default", all[0].Key)
	assert.Equal(t, AppOnly, all[0].Strategy)

	netflix, err := mem.List(ctx, "netflix")
	require.NoError(t, err)
	assert.Len(t, netflix, 2)

	require.NoError(t, mem.Forget(ctx, "netflix|id=1"))
	n, err := mem.Clear(ctx, "netflix")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = mem.Clear(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	all, err = mem.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestVerifiedStore(t *testing.T) {
	ctx := context.Background()
	store := NewMapStore()
	verified := NewVerifiedStore(store)

	assert.Empty(t, verified.Templates(ctx, "netflix"))

	a := target.Template{URI: "a://{{ .id }}", Extras: map[string]string{"source": "30"}}
	b := target.Template{URI: "b://{{ .id }}", ContentTypes: []target.ContentType{target.Movie}}
	require.NoError(t, verified.Record(ctx, "netflix", a))
	require.NoError(t, verified.Record(ctx, "netflix", b))
	require.NoError(t, verified.Record(ctx, "netflix", a))

	assert.Equal(t, []target.Template{a, b}, verified.Templates(ctx, "netflix"), "most recent first, no duplicates")

	for i := 0; i < 10; i++ {
		require.NoError(t, verified.Record(ctx, "netflix", target.Template{URI: string(rune('c'+i)) + "://x"}))
	}
	assert.Len(t, verified.Templates(ctx, "netflix"), MaxVerified)

	require.NoError(t, verified.Reset(ctx, "netflix"))
	assert.Empty(t, verified.Templates(ctx, "netflix"))

	require.NoError(t, store.Put(ctx, "verified/hulu", "{not json"))
	assert.Empty(t, verified.Templates(ctx, "hulu"))

	records, err := New(store).List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, records, "verified entries are not method records")
}
