package cache

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdesk/internal/domain/services"
	platformredis "eventdesk/internal/platform/redis"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	m := NewMemoryStore()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Minute))

	got, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	now = now.Add(time.Minute)
	_, ok, err = m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestMemoryStore_Sweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	m := NewMemoryStore()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "old", []byte("v"), time.Second))
	now = now.Add(time.Hour)
	for i := 0; i < sweepEvery-1; i++ {
		require.NoError(t, m.Set(ctx, "live", []byte("v"), time.Hour))
	}
	assert.Equal(t, 1, m.Len())
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	require.NoError(t, m.Set(ctx, "k", []byte("abc"), time.Minute))

	got, _, _ := m.Get(ctx, "k")
	got[0] = 'z'

	again, _, _ := m.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), again)
}

func TestResponseCache_InvalidateUser(t *testing.T) {
	ctx := context.Background()
	c := NewResponseCache(NewMemoryStore(), time.Minute, discard())

	c.Set(ctx, Key("u1", "/api/workspace/folders"), []byte("a"))
	c.Set(ctx, Key("u1", "/api/workspace/tree"), []byte("b"))
	c.Set(ctx, Key("u2", "/api/workspace/tree"), []byte("c"))

	c.WorkspaceChanged(ctx, services.WorkspaceChange{Action: services.ChangeItemAdded, UserID: "u1"})

	_, ok := c.Get(ctx, Key("u1", "/api/workspace/folders"))
	assert.False(t, ok)
	_, ok = c.Get(ctx, Key("u1", "/api/workspace/tree"))
	assert.False(t, ok)
	body, ok := c.Get(ctx, Key("u2", "/api/workspace/tree"))
	assert.True(t, ok)
	assert.Equal(t, []byte("c"), body)
}

func TestResponseCache_Fill(t *testing.T) {
	ctx := context.Background()
	c := NewResponseCache(NewMemoryStore(), time.Minute, discard())

	tests := []struct {
		name     string
		store    bool
		wantHit  bool
		wantLoad int32
	}{
		{"cacheable body is stored", true, true, 1},
		{"uncacheable body is not stored", false, false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var loads atomic.Int32
			key := Key("u1", "/"+tt.name)
			load := func() ([]byte, bool) {
				loads.Add(1)
				return []byte("body"), tt.store
			}

			body, hit := c.Fill(ctx, key, load)
			assert.False(t, hit)
			assert.Equal(t, []byte("body"), body)

			body, hit = c.Fill(ctx, key, load)
			assert.Equal(t, tt.wantHit, hit)
			assert.Equal(t, []byte("body"), body)
			assert.Equal(t, tt.wantLoad, loads.Load())
		})
	}
}

func TestResponseCache_FillCollapsesConcurrentMisses(t *testing.T) {
	ctx := context.Background()
	c := NewResponseCache(NewMemoryStore(), time.Minute, discard())

	var loads atomic.Int32
	release := make(chan struct{})
	load := func() ([]byte, bool) {
		loads.Add(1)
		<-release
		return []byte("tree"), true
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body, _ := c.Fill(ctx, Key("u1", "/api/workspace/tree"), load)
			assert.Equal(t, []byte("tree"), body)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, loads.Load(), int32(8))
	body, hit := c.Fill(ctx, Key("u1", "/api/workspace/tree"), load)
	assert.True(t, hit)
	assert.Equal(t, []byte("tree"), body)
}

func TestResponseCache_FillDuringInvalidation(t *testing.T) {
	ctx := context.Background()
	c := NewResponseCache(NewMemoryStore(), time.Minute, discard())
	key := Key("u1", "/api/workspace/folders")

	body, hit := c.Fill(ctx, key, func() ([]byte, bool) {
		// a mutation lands while the listing is being built
		c.InvalidateUser(ctx, "u1")
		return []byte("stale"), true
	})
	assert.False(t, hit)
	assert.Equal(t, []byte("stale"), body)

	_, ok := c.Get(ctx, key)
	assert.False(t, ok)

	body, hit = c.Fill(ctx, key, func() ([]byte, bool) { return []byte("fresh"), true })
	assert.False(t, hit)
	assert.Equal(t, []byte("fresh"), body)
	got, ok := c.Get(ctx, key)
	assert.True(t, ok)
	assert.Equal(t, []byte("fresh"), got)

	// another user's invalidation does not affect u1
	body, _ = c.Fill(ctx, Key("u1", "/api/workspace/tree"), func() ([]byte, bool) {
		c.InvalidateUser(ctx, "u2")
		return []byte("tree"), true
	})
	assert.Equal(t, []byte("tree"), body)
	_, ok = c.Get(ctx, Key("u1", "/api/workspace/tree"))
	assert.True(t, ok)
}

func TestUserOf(t *testing.T) {
	assert.Equal(t, "u1", userOf(Key("u1", "/api/workspace/tree?x=1:2")))
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	client, err := platformredis.New(ctx, addr, os.Getenv("REDIS_PASSWORD"), 0)
	require.NoError(t, err)
	defer client.Close()

	s := NewRedisStore(client, "eventdesk-test:")
	require.NoError(t, s.Set(ctx, "cache:u1:/a", []byte("1"), time.Minute))
	require.NoError(t, s.Set(ctx, "cache:u1:/b", []byte("2"), time.Minute))
	require.NoError(t, s.Set(ctx, "cache:u2:/a", []byte("3"), time.Minute))

	got, ok, err := s.Get(ctx, "cache:u1:/a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("1"), got)

	require.NoError(t, s.DeletePrefix(ctx, "cache:u1:"))
	_, ok, err = s.Get(ctx, "cache:u1:/b")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = s.Get(ctx, "cache:u2:/a")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.DeletePrefix(ctx, "cache:"))
}
