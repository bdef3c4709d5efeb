package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeImplementations(t *testing.T) map[string]func() Store {
	return map[string]func() Store{
		"map": func() Store { return NewMapStore() },
		"badger-memory": func() Store {
			s, err := OpenBadger("")
			require.NoError(t, err)
			return s
		},
		"badger-disk": func() Store {
			s, err := OpenBadger(t.TempDir())
			require.NoError(t, err)
			return s
		},
	}
}

func TestStore_Contract(t *testing.T) {
	for name, factory := range storeImplementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory()
			defer store.Close()

			_, ok, err := store.Get(ctx, "method/missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Put(ctx, "method/b", "search"))
			require.NoError(t, store.Put(ctx, "method/a", "appOnly"))
			require.NoError(t, store.Put(ctx, "verified/a", "[]"))
			require.NoError(t, store.Put(ctx, "method/a", "deepLink[1]"))

			v, ok, err := store.Get(ctx, "method/a")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "deepLink[1]", v, "last writer wins")

			entries, err := store.List(ctx, "method/")
			require.NoError(t, err)
			assert.Equal(t, []Entry{{"method/a", "deepLink[1]"}, {"method/b", "search"}}, entries)

			require.NoError(t, store.Delete(ctx, "method/a"))
			_, ok, err = store.Get(ctx, "method/a")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStore_ConcurrentWrites(t *testing.T) {
	for name, factory := range storeImplementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory()
			defer store.Close()

			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					assert.NoError(t, store.Put(ctx, "method/shared", fmt.Sprintf("deepLink[%d]", i)))
					assert.NoError(t, store.Put(ctx, fmt.Sprintf("method/k%02d", i), "search"))
				}(i)
			}
			wg.Wait()

			v, ok, err := store.Get(ctx, "method/shared")
			require.NoError(t, err)
			require.True(t, ok)
			_, err = ParseStrategy(v)
			assert.NoError(t, err, "value is one complete write")

			entries, err := store.List(ctx, "method/k")
			require.NoError(t, err)
			assert.Len(t, entries, 20)
		})
	}
}

func TestBadgerStore_Persists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := OpenBadger(dir)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "method/netflix|id=1", "deepLink[2]"))
	require.NoError(t, store.Close())

	reopened, err := OpenBadger(dir)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.Get(ctx, "method/netflix|id=1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "deepLink[2]", v)
}
