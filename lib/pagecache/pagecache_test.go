package pagecache

import (
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func openInMemoryDisk(t *testing.T, ttl time.Duration) Disk {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatal(err)
	}
	disk := NewDisk(db, ttl)
	t.Cleanup(func() { disk.Close() })
	return disk
}

func TestKey(t *testing.T) {
	a, err := Key("HTTPS://www.Example.fi/fi/a/../pisterajat#top")
	require.NoError(t, err)
	b, err := Key("https://www.example.fi/fi/pisterajat")
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	cache := NewMemory(8, time.Minute)

	_, err := cache.Get(ctx, "https://example.fi/a")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, cache.Set(ctx, "https://example.fi/a", []byte("page a")))
	body, err := cache.Get(ctx, "https://example.fi/a#fragment")
	require.NoError(t, err)
	require.Equal(t, []byte("page a"), body)
}

func TestDisk(t *testing.T) {
	ctx := context.Background()
	cache := openInMemoryDisk(t, time.Hour)

	_, err := cache.Get(ctx, "https://example.fi/a")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, cache.Set(ctx, "https://example.fi/a", []byte("page a")))
	body, err := cache.Get(ctx, "https://example.fi/a")
	require.NoError(t, err)
	require.Equal(t, []byte("page a"), body)
}

func TestDiskExpired(t *testing.T) {
	ctx := context.Background()
	cache := openInMemoryDisk(t, -time.Second)

	require.NoError(t, cache.Set(ctx, "https://example.fi/a", []byte("page a")))
	_, err := cache.Get(ctx, "https://example.fi/a")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLayeredBackfills(t *testing.T) {
	ctx := context.Background()
	front := NewMemory(8, time.Minute)
	back := openInMemoryDisk(t, time.Hour)
	cache := Layered{front, back}

	require.NoError(t, back.Set(ctx, "https://example.fi/a", []byte("page a")))

	body, err := cache.Get(ctx, "https://example.fi/a")
	require.NoError(t, err)
	require.Equal(t, []byte("page a"), body)

	body, err = front.Get(ctx, "https://example.fi/a")
	require.NoError(t, err)
	require.Equal(t, []byte("page a"), body)

	_, err = cache.Get(ctx, "https://example.fi/missing")
	require.ErrorIs(t, err, ErrNotFound)
}
