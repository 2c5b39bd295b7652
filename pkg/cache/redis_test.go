package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, "portal"), mr
}

func TestCacheSetGet(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	type entry struct {
		Suite string `json:"suite"`
	}
	require.NoError(t, c.Set(ctx, "directory:all", []entry{{Suite: "101"}}, time.Minute))
	assert.True(t, mr.Exists("portal:directory:all"))

	var got []entry
	require.NoError(t, c.Get(ctx, "directory:all", &got))
	assert.Equal(t, []entry{{Suite: "101"}}, got)
}

func TestCacheMissAndDelete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	var got string
	assert.ErrorIs(t, c.Get(ctx, "missing", &got), ErrMiss)

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))
	assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrMiss)
}

func TestCacheExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Second))
	mr.FastForward(2 * time.Second)

	var got string
	assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrMiss)
}
