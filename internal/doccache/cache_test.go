package doccache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func caches(t *testing.T) map[string]func() Cache {
	return map[string]func() Cache{
		"memory": func() Cache { return NewMemory() },
		"bolt": func() Cache {
			c, err := OpenBolt(t.TempDir())
			require.NoError(t, err)
			return c
		},
	}
}

func TestCache_Lifecycle(t *testing.T) {
	for name, open := range caches(t) {
		t.Run(name, func(t *testing.T) {
			c := open()
			defer c.Close()
			ctx := context.Background()

			_, found, err := c.Get(ctx, "index")
			require.NoError(t, err)
			assert.False(t, found)

			mod := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
			entry := Entry{ID: "index", Path: "/docs/index.ftd", ModTime: mod, Source: "-- ftd.text: hi\n"}
			require.NoError(t, c.Put(ctx, entry))

			got, found, err := c.Get(ctx, "index")
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, entry.Source, got.Source)
			assert.Equal(t, entry.Path, got.Path)
			assert.True(t, mod.Equal(got.ModTime))

			entry.Source = "-- ftd.text: bye\n"
			require.NoError(t, c.Put(ctx, entry))
			got, _, err = c.Get(ctx, "index")
			require.NoError(t, err)
			assert.Equal(t, "-- ftd.text: bye\n", got.Source)

			require.NoError(t, c.Delete(ctx, "index"))
			require.NoError(t, c.Delete(ctx, "index"))
			_, found, err = c.Get(ctx, "index")
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestCache_Concurrent(t *testing.T) {
	for name, open := range caches(t) {
		t.Run(name, func(t *testing.T) {
			c := open()
			defer c.Close()
			ctx := context.Background()

			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					id := fmt.Sprintf("doc-%d", i%5)
					assert.NoError(t, c.Put(ctx, Entry{ID: id, Source: id}))
					_, _, err := c.Get(ctx, id)
					assert.NoError(t, err)
				}(i)
			}
			wg.Wait()

			for i := 0; i < 5; i++ {
				id := fmt.Sprintf("doc-%d", i)
				got, found, err := c.Get(ctx, id)
				require.NoError(t, err)
				require.True(t, found)
				assert.Equal(t, id, got.Source)
			}
		})
	}
}

func TestBolt_Persists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	c, err := OpenBolt(dir)
	require.NoError(t, err)
	require.NoError(t, c.Put(ctx, Entry{ID: "a", Source: "kept"}))
	require.NoError(t, c.Close())

	c, err = OpenBolt(dir)
	require.NoError(t, err)
	defer c.Close()
	got, found, err := c.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "kept", got.Source)
}

func TestCache_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewMemory()
	assert.ErrorIs(t, c.Put(ctx, Entry{ID: "a"}), context.Canceled)
	_, _, err := c.Get(ctx, "a")
	assert.ErrorIs(t, err, context.Canceled)
}
