package lockbackend

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend() *InProcess {
	return NewInProcess(zerolog.Nop())
}

func Test_InProcess_CreateIfAbsent(t *testing.T) {
	b := newTestBackend()
	ctx := context.Background()

	created, err := b.CreateIfAbsent(ctx, "Cell-c1", "v1")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = b.CreateIfAbsent(ctx, "Cell-c1", "v2")
	require.NoError(t, err)
	assert.False(t, created)

	v, ok, err := b.Read(ctx, "Cell-c1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v1", v)
}

// Racing CreateIfAbsent calls on the same key must admit exactly one
// winner.
func Test_InProcess_CreateIfAbsent_Race(t *testing.T) {
	b := newTestBackend()
	ctx := context.Background()

	const racers = 64
	var wins int64
	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(racers)
	for i := 0; i < racers; i++ {
		go func() {
			defer wg.Done()
			created, err := b.CreateIfAbsent(ctx, "odata-cell", "x")
			assert.NoError(t, err)
			if created {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1), wins)
}

func Test_InProcess_Delete(t *testing.T) {
	b := newTestBackend()
	ctx := context.Background()

	_, err := b.CreateIfAbsent(ctx, "dav-box", "v")
	require.NoError(t, err)
	require.NoError(t, b.Delete(ctx, "dav-box"))

	_, ok, err := b.Read(ctx, "dav-box")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting an absent key is not an error.
	assert.NoError(t, b.Delete(ctx, "dav-box"))
}

func Test_InProcess_DeleteAll(t *testing.T) {
	b := newTestBackend()
	ctx := context.Background()

	_, err := b.CreateIfAbsent(ctx, "a", "1")
	require.NoError(t, err)
	_, err = b.Increment(ctx, "b", 0)
	require.NoError(t, err)

	require.NoError(t, b.DeleteAll(ctx))

	_, ok, err := b.Read(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
	n, err := b.ReadInt(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, AbsentCount, n)
}

func Test_InProcess_Expiry(t *testing.T) {
	b := newTestBackend()
	ctx := context.Background()

	now := time.Unix(1000, 0)
	b.now = func() time.Time { return now }

	created, err := b.CreateWithExpiry(ctx, "AccountLock_u1", "1", time.Second)
	require.NoError(t, err)
	require.True(t, created)

	_, ok, err := b.Read(ctx, "AccountLock_u1")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok, err = b.Read(ctx, "AccountLock_u1")
	require.NoError(t, err)
	assert.False(t, ok)

	// The key is free again after expiry with no explicit delete.
	created, err = b.CreateWithExpiry(ctx, "AccountLock_u1", "1", time.Second)
	require.NoError(t, err)
	assert.True(t, created)
}

func Test_InProcess_Counters(t *testing.T) {
	b := newTestBackend()
	ctx := context.Background()

	n, err := b.ReadInt(ctx, "CellAccessCount_c1")
	require.NoError(t, err)
	assert.Equal(t, AbsentCount, n)

	n, err = b.Increment(ctx, "CellAccessCount_c1", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = b.Increment(ctx, "CellAccessCount_c1", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = b.Decrement(ctx, "CellAccessCount_c1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = b.Decrement(ctx, "CellAccessCount_c1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	// Back at zero the entry is gone.
	n, err = b.ReadInt(ctx, "CellAccessCount_c1")
	require.NoError(t, err)
	assert.Equal(t, AbsentCount, n)

	// Decrementing below zero clamps.
	n, err = b.Decrement(ctx, "CellAccessCount_c1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func Test_InProcess_Increment_RefreshesExpiry(t *testing.T) {
	b := newTestBackend()
	ctx := context.Background()

	now := time.Unix(1000, 0)
	b.now = func() time.Time { return now }

	_, err := b.Increment(ctx, "AccountLock_u2", 2*time.Second)
	require.NoError(t, err)

	now = now.Add(time.Second)
	n, err := b.Increment(ctx, "AccountLock_u2", 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// The second increment pushed the expiry out.
	now = now.Add(1500 * time.Millisecond)
	n, err = b.ReadInt(ctx, "AccountLock_u2")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	now = now.Add(time.Second)
	n, err = b.ReadInt(ctx, "AccountLock_u2")
	require.NoError(t, err)
	assert.Equal(t, AbsentCount, n)
}
