package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	ctx := context.Background()

	t.Run("claims a new key", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		ok, err := store.MarkProcessed(ctx, "event:1", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("rejects a claimed key", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		_, _ = store.MarkProcessed(ctx, "event:1", time.Hour)
		ok, err := store.MarkProcessed(ctx, "event:1", time.Hour)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("allows a new claim after expiry", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		_, _ = store.MarkProcessed(ctx, "event:1", 10*time.Millisecond)
		time.Sleep(20 * time.Millisecond)

		ok, err := store.MarkProcessed(ctx, "event:1", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestInMemoryIdempotencyStore_IsProcessed(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	processed, err := store.IsProcessed(ctx, "k")
	require.NoError(t, err)
	assert.False(t, processed)

	_, _ = store.MarkProcessed(ctx, "k", time.Hour)
	processed, err = store.IsProcessed(ctx, "k")
	require.NoError(t, err)
	assert.True(t, processed)

	_, _ = store.MarkProcessed(ctx, "short", time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	processed, _ = store.IsProcessed(ctx, "short")
	assert.False(t, processed)
}

func TestInMemoryIdempotencyStore_Responses(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	resp, err := store.LoadResponse(ctx, "req")
	require.NoError(t, err)
	assert.Nil(t, resp)

	ok, _ := store.MarkProcessed(ctx, "req", time.Hour)
	require.True(t, ok)

	resp, err = store.LoadResponse(ctx, "req")
	require.NoError(t, err)
	assert.Nil(t, resp, "claimed key has no response until one is saved")

	want := StoredResponse{StatusCode: 201, ContentType: "application/json", Body: []byte(`{"success":true}`)}
	require.NoError(t, store.SaveResponse(ctx, "req", want, time.Hour))

	resp, err = store.LoadResponse(ctx, "req")
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, want, *resp)

	require.NoError(t, store.Release(ctx, "req"))
	resp, _ = store.LoadResponse(ctx, "req")
	assert.Nil(t, resp)

	ok, _ = store.MarkProcessed(ctx, "req", time.Hour)
	assert.True(t, ok, "released key can be claimed again")
}

func TestInMemoryIdempotencyStore_Sweep(t *testing.T) {
	ctx := context.Background()
	store := newInMemoryIdempotencyStore(5 * time.Millisecond)
	defer store.Close()

	_, _ = store.MarkProcessed(ctx, "gone", time.Millisecond)
	_, _ = store.MarkProcessed(ctx, "kept", time.Hour)

	assert.Eventually(t, func() bool { return store.Size() == 1 }, time.Second, 5*time.Millisecond)
	processed, _ := store.IsProcessed(ctx, "kept")
	assert.True(t, processed)
}

func TestInMemoryIdempotencyStore_ConcurrentClaims(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := store.MarkProcessed(ctx, "contended", time.Hour); ok {
				wins.Add(1)
			}
			_, _ = store.MarkProcessed(ctx, fmt.Sprintf("own-%d", i), time.Hour)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, 51, store.Size())
}

func TestInMemoryIdempotencyStore_CloseTwice(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
