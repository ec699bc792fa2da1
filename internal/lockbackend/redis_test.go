package lockbackend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisBackend(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		require.NoError(t, client.Close())
	})
	return NewRedis(client, zerolog.Nop()), mr
}

func Test_Redis_CreateIfAbsent(t *testing.T) {
	b, _ := newRedisBackend(t)
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

func Test_Redis_CreateWithExpiry(t *testing.T) {
	b, mr := newRedisBackend(t)
	ctx := context.Background()

	created, err := b.CreateWithExpiry(ctx, "AccountLock_u1", "1", time.Second)
	require.NoError(t, err)
	require.True(t, created)

	_, ok, err := b.Read(ctx, "AccountLock_u1")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(time.Second)

	_, ok, err = b.Read(ctx, "AccountLock_u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func Test_Redis_DeleteAndDeleteAll(t *testing.T) {
	b, _ := newRedisBackend(t)
	ctx := context.Background()

	_, err := b.CreateIfAbsent(ctx, "a", "1")
	require.NoError(t, err)
	require.NoError(t, b.Delete(ctx, "a"))
	_, ok, err := b.Read(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = b.CreateIfAbsent(ctx, "b", "1")
	require.NoError(t, err)
	_, err = b.Increment(ctx, "c", 0)
	require.NoError(t, err)
	require.NoError(t, b.DeleteAll(ctx))
	_, ok, err = b.Read(ctx, "b")
	require.NoError(t, err)
	assert.False(t, ok)
	n, err := b.ReadInt(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, AbsentCount, n)
}

func Test_Redis_Counters(t *testing.T) {
	b, _ := newRedisBackend(t)
	ctx := context.Background()

	n, err := b.Increment(ctx, "CellAccessCount_c1", 0)
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

	n, err = b.ReadInt(ctx, "CellAccessCount_c1")
	require.NoError(t, err)
	assert.Equal(t, AbsentCount, n)

	// Clamped at zero even though redis DECR would go negative.
	n, err = b.Decrement(ctx, "CellAccessCount_c1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	n, err = b.ReadInt(ctx, "CellAccessCount_c1")
	require.NoError(t, err)
	assert.Equal(t, AbsentCount, n)
}

func Test_Redis_Increment_WithTTL(t *testing.T) {
	b, mr := newRedisBackend(t)
	ctx := context.Background()

	_, err := b.Increment(ctx, "AccountLock_u2", time.Second)
	require.NoError(t, err)

	mr.FastForward(time.Second)

	n, err := b.ReadInt(ctx, "AccountLock_u2")
	require.NoError(t, err)
	assert.Equal(t, AbsentCount, n)
}

// A connection failure must surface as ErrUnavailable, not as an
// absent key.
func Test_Redis_Unavailable(t *testing.T) {
	b, mr := newRedisBackend(t)
	ctx := context.Background()

	mr.Close()

	_, err := b.CreateIfAbsent(ctx, "Cell-c1", "v")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))

	_, _, err = b.Read(ctx, "Cell-c1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))

	_, err = b.Increment(ctx, "Cell-c1", 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}
