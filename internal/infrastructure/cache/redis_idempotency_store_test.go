package cache

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/erp/procurement/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRedisStore(t *testing.T) (*RedisIdempotencyStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisIdempotencyStore(client, "procurement:")
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func redisConfigFor(t *testing.T, mr *miniredis.Miniredis) config.RedisConfig {
	t.Helper()
	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)
	p, err := strconv.Atoi(port)
	require.NoError(t, err)
	return config.RedisConfig{Enabled: true, Host: host, Port: p, KeyPrefix: "procurement:"}
}

func TestRedisIdempotencyStore_MarkProcessed(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	ok, err := store.MarkProcessed(ctx, "event:1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("procurement:idempotency:event:1"))

	ok, err = store.MarkProcessed(ctx, "event:1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	processed, err := store.IsProcessed(ctx, "event:1")
	require.NoError(t, err)
	assert.True(t, processed)

	mr.FastForward(2 * time.Minute)

	processed, err = store.IsProcessed(ctx, "event:1")
	require.NoError(t, err)
	assert.False(t, processed)

	ok, err = store.MarkProcessed(ctx, "event:1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisIdempotencyStore_Responses(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	resp, err := store.LoadResponse(ctx, "req")
	require.NoError(t, err)
	assert.Nil(t, resp)

	want := StoredResponse{StatusCode: 201, ContentType: "application/json", Body: []byte(`{"id":"x"}`)}
	require.NoError(t, store.SaveResponse(ctx, "req", want, time.Minute))

	resp, err = store.LoadResponse(ctx, "req")
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, want, *resp)

	processed, _ := store.IsProcessed(ctx, "req")
	assert.True(t, processed)

	require.NoError(t, store.Release(ctx, "req"))
	assert.False(t, mr.Exists("procurement:idempotency:req"))
	assert.False(t, mr.Exists("procurement:idempotency:req:response"))
}

func TestRedisIdempotencyStore_ServerDown(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)
	mr.Close()

	_, err := store.MarkProcessed(ctx, "k", time.Minute)
	assert.Error(t, err)

	_, err = store.LoadResponse(ctx, "k")
	assert.Error(t, err)
}

func TestNewStore(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("disabled redis uses memory", func(t *testing.T) {
		store, err := NewStore(ctx, config.RedisConfig{Enabled: false}, logger)
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	t.Run("reachable redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		store, err := NewStore(ctx, redisConfigFor(t, mr), logger)
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &RedisIdempotencyStore{}, store)
	})

	t.Run("unreachable redis falls back", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := redisConfigFor(t, mr)
		mr.Close()

		store, err := NewStore(ctx, cfg, logger)
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	t.Run("unreachable redis fails when required", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := redisConfigFor(t, mr)
		cfg.Required = true
		mr.Close()

		_, err := NewStore(ctx, cfg, logger)
		assert.Error(t, err)
	})
}
